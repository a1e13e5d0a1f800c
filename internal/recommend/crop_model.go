package recommend

import (
	"math"
	"strings"
	"unicode"
)

// ModelCropScorer ranks crops with the trained multinomial logistic
// regression exported by the offline pipeline.
type ModelCropScorer struct {
	artifact *cropArtifact
}

func NewModelCropScorer(artifact *cropArtifact) *ModelCropScorer {
	return &ModelCropScorer{artifact: artifact}
}

func (s *ModelCropScorer) Name() string { return string(SourceModel) }

func (s *ModelCropScorer) Score(in CropInput) ([]Recommendation, error) {
	x := s.artifact.Scaler.transform(in.features())
	probs := probabilities(s.artifact.Weights, s.artifact.Intercepts, x)

	recs := make([]Recommendation, 0, len(probs))
	for i, p := range probs {
		recs = append(recs, Recommendation{
			Name:                 displayName(s.artifact.Classes[i]),
			Probability:          p,
			ConfidencePercentage: roundPercent(p * 100),
			Priority:             modelCropPriority(p),
		})
	}
	sortByConfidence(recs)
	return recs, nil
}

// displayName upper-cases the first rune of a class label. Training labels
// are stored lowercase.
func displayName(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return label
	}
	r := []rune(label)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func roundPercent(v float64) float64 {
	return math.Round(v*10) / 10
}
