package recommend

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// One collector for the whole test binary: prometheus panics on duplicate
// registration in the default registry.
var testCollector = metrics.NewCollector("recommend_test")

func testLogger() *logging.StructuredLogger {
	return logging.NewNop()
}

func writeArtifact(t *testing.T, name string, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

// testCropArtifact builds a 2-class crop model whose first weight row favors
// high nitrogen, so inputs with nitrogen above the mean rank "rice" first.
func testCropArtifact() map[string]interface{} {
	return map[string]interface{}{
		"feature_names": []string{"nitrogen", "phosphorus", "potassium", "temperature", "humidity", "ph", "rainfall"},
		"scaler": map[string]interface{}{
			"mean":  []float64{90, 47, 40, 25, 71, 6.5, 103},
			"scale": []float64{36, 32, 50, 5, 22, 0.7, 55},
		},
		"classes":    []string{"rice", "wheat"},
		"weights":    [][]float64{{2, 0, 0, 0, 0, 0, 0}, {-2, 0, 0, 0, 0, 0, 0}},
		"intercepts": []float64{0, 0},
	}
}

// testFertilizerArtifact builds a 2-class fertilizer model with minimal
// vocabularies for the categorical columns.
func testFertilizerArtifact() map[string]interface{} {
	return map[string]interface{}{
		"numeric_features": []string{"temperature", "moisture", "rainfall", "ph", "nitrogen", "phosphorus", "potassium", "carbon"},
		"scaler": map[string]interface{}{
			"mean":  []float64{26, 0.5, 150, 6.5, 60, 40, 30, 1.5},
			"scale": []float64{6, 0.2, 80, 0.8, 30, 20, 15, 0.5},
		},
		"categories": map[string][]string{
			"soil": {"Loamy Soil", "Sandy Soil"},
			"crop": {"rice", "wheat"},
		},
		"classes":    []string{"Urea", "DAP"},
		"weights":    [][]float64{{0, 0, 0, 0, -2, 0, 0, 0, 0, 0}, {0, 0, 0, 0, 2, 0, 0, 0, 0, 0}},
		"intercepts": []float64{0, 0},
	}
}

// riceFriendlyInput sits inside every Rice range in the crop catalog.
func riceFriendlyInput() CropInput {
	return CropInput{
		Nitrogen:    90,
		Phosphorus:  45,
		Potassium:   40,
		Temperature: 25,
		Humidity:    85,
		PH:          6.2,
		Rainfall:    200,
	}
}
