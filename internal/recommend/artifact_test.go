package recommend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCropArtifact_MissingFile(t *testing.T) {
	_, err := LoadCropArtifact(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)

	var artErr *ArtifactError
	assert.ErrorAs(t, err, &artErr)
}

func TestLoadCropArtifact_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := LoadCropArtifact(path)
	var artErr *ArtifactError
	assert.ErrorAs(t, err, &artErr)
}

func TestLoadCropArtifact_ShapeMismatch(t *testing.T) {
	bad := testCropArtifact()
	bad["weights"] = [][]float64{{1, 2}, {3, 4}}
	path := writeArtifact(t, "crop.json", bad)

	_, err := LoadCropArtifact(path)
	var artErr *ArtifactError
	assert.ErrorAs(t, err, &artErr)
}

func TestLoadFertilizerArtifact_MissingVocabulary(t *testing.T) {
	bad := testFertilizerArtifact()
	bad["categories"] = map[string][]string{"soil": {"Loamy Soil"}}
	path := writeArtifact(t, "fertilizer.json", bad)

	_, err := LoadFertilizerArtifact(path)
	var artErr *ArtifactError
	assert.ErrorAs(t, err, &artErr)
}

func TestScalerTransform_ZeroScalePassesThrough(t *testing.T) {
	s := scalerArtifact{Mean: []float64{10, 0}, Scale: []float64{2, 0}}

	got := s.transform([]float64{14, 3})
	assert.Equal(t, []float64{2, 3}, got)
}

func TestProbabilities_StableForLargeLogits(t *testing.T) {
	// Max-subtraction keeps exp() finite even with extreme weights.
	probs := probabilities([][]float64{{1000}, {999}}, []float64{0, 0}, []float64{1})

	require.Len(t, probs, 2)
	assert.Greater(t, probs[0], probs[1])
	assert.InDelta(t, 1.0, probs[0]+probs[1], 1e-9)
	assert.False(t, probs[0] > 1)
}
