package recommend

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
)

// Model artifacts are JSON exports of the offline training run: the fitted
// standard scaler, multinomial logistic regression coefficients and, for
// fertilizer, the label-encoder vocabularies for the categorical columns.
// Artifacts are loaded once at engine construction; a missing or malformed
// file degrades the engine to rule-based scoring rather than failing startup.

type scalerArtifact struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// transform applies standard scaling component-wise. A zero scale (constant
// training column) passes the centered value through unscaled.
func (s scalerArtifact) transform(features []float64) []float64 {
	out := make([]float64, len(features))
	for i, v := range features {
		d := s.Scale[i]
		if d == 0 {
			d = 1
		}
		out[i] = (v - s.Mean[i]) / d
	}
	return out
}

type cropArtifact struct {
	FeatureNames []string       `json:"feature_names"`
	Scaler       scalerArtifact `json:"scaler"`
	Classes      []string       `json:"classes"`
	Weights      [][]float64    `json:"weights"`
	Intercepts   []float64      `json:"intercepts"`
}

func (a *cropArtifact) validate() error {
	n := len(a.FeatureNames)
	if n == 0 {
		return fmt.Errorf("no feature names")
	}
	if len(a.Scaler.Mean) != n || len(a.Scaler.Scale) != n {
		return fmt.Errorf("scaler shape %d/%d does not match %d features",
			len(a.Scaler.Mean), len(a.Scaler.Scale), n)
	}
	return validateLinearModel(a.Classes, a.Weights, a.Intercepts, n)
}

type fertilizerArtifact struct {
	NumericFeatures []string            `json:"numeric_features"`
	Scaler          scalerArtifact      `json:"scaler"`
	Categories      map[string][]string `json:"categories"`
	Classes         []string            `json:"classes"`
	Weights         [][]float64         `json:"weights"`
	Intercepts      []float64           `json:"intercepts"`
}

func (a *fertilizerArtifact) validate() error {
	n := len(a.NumericFeatures)
	if n == 0 {
		return fmt.Errorf("no numeric features")
	}
	if len(a.Scaler.Mean) != n || len(a.Scaler.Scale) != n {
		return fmt.Errorf("scaler shape %d/%d does not match %d features",
			len(a.Scaler.Mean), len(a.Scaler.Scale), n)
	}
	for _, key := range []string{"soil", "crop"} {
		if len(a.Categories[key]) == 0 {
			return fmt.Errorf("missing %s vocabulary", key)
		}
	}
	return validateLinearModel(a.Classes, a.Weights, a.Intercepts, n+len(a.Categories))
}

// encode maps a categorical value to its label-encoder index. Matching is
// case-insensitive on trimmed input.
func (a *fertilizerArtifact) encode(feature, value string) (float64, error) {
	want := strings.ToLower(strings.TrimSpace(value))
	for i, v := range a.Categories[feature] {
		if strings.ToLower(v) == want {
			return float64(i), nil
		}
	}
	return 0, &UnseenCategoryError{Feature: feature, Value: value}
}

func validateLinearModel(classes []string, weights [][]float64, intercepts []float64, dims int) error {
	if len(classes) == 0 {
		return fmt.Errorf("no classes")
	}
	if len(weights) != len(classes) || len(intercepts) != len(classes) {
		return fmt.Errorf("coefficient rows %d, intercepts %d for %d classes",
			len(weights), len(intercepts), len(classes))
	}
	for i, row := range weights {
		if len(row) != dims {
			return fmt.Errorf("weight row %d has %d columns, want %d", i, len(row), dims)
		}
	}
	return nil
}

// probabilities computes softmax over the class logits for one input vector.
func probabilities(weights [][]float64, intercepts []float64, x []float64) []float64 {
	logits := make([]float64, len(weights))
	maxLogit := math.Inf(-1)
	for i, row := range weights {
		z := intercepts[i]
		for j, w := range row {
			z += w * x[j]
		}
		logits[i] = z
		if z > maxLogit {
			maxLogit = z
		}
	}
	var sum float64
	probs := make([]float64, len(logits))
	for i, z := range logits {
		probs[i] = math.Exp(z - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// LoadCropArtifact reads and validates a crop model artifact.
func LoadCropArtifact(path string) (*cropArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ArtifactError{Path: path, Err: err}
	}
	var art cropArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, &ArtifactError{Path: path, Err: err}
	}
	if err := art.validate(); err != nil {
		return nil, &ArtifactError{Path: path, Err: err}
	}
	return &art, nil
}

// LoadFertilizerArtifact reads and validates a fertilizer model artifact.
func LoadFertilizerArtifact(path string) (*fertilizerArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ArtifactError{Path: path, Err: err}
	}
	var art fertilizerArtifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, &ArtifactError{Path: path, Err: err}
	}
	if err := art.validate(); err != nil {
		return nil, &ArtifactError{Path: path, Err: err}
	}
	return &art, nil
}
