package recommend

// ModelFertilizerScorer ranks fertilizers with the trained model. Predicted
// class names are enriched with dosage and usage guidance from the knowledge
// base; classes the base does not know get generic guidance.
type ModelFertilizerScorer struct {
	artifact *fertilizerArtifact
}

func NewModelFertilizerScorer(artifact *fertilizerArtifact) *ModelFertilizerScorer {
	return &ModelFertilizerScorer{artifact: artifact}
}

func (s *ModelFertilizerScorer) Name() string { return string(SourceModel) }

func (s *ModelFertilizerScorer) Score(in FertilizerInput) ([]Recommendation, error) {
	soil, err := s.artifact.encode("soil", in.Soil)
	if err != nil {
		return nil, err
	}
	crop, err := s.artifact.encode("crop", in.Crop)
	if err != nil {
		return nil, err
	}

	// Numeric columns are scaled; encoded categoricals pass through raw,
	// matching how the model was trained.
	x := s.artifact.Scaler.transform(in.numericFeatures())
	x = append(x, soil, crop)
	probs := probabilities(s.artifact.Weights, s.artifact.Intercepts, x)

	recs := make([]Recommendation, 0, len(probs))
	for i, p := range probs {
		name := s.artifact.Classes[i]
		details := Details(name)
		confidence := roundPercent(p * 100)
		recs = append(recs, Recommendation{
			Name:                 name,
			Probability:          p,
			ConfidencePercentage: confidence,
			Priority:             modelFertilizerPriority(confidence),
			Dosage:               details.Dosage,
			Usage:                details.Usage,
			Note:                 details.Note,
		})
	}
	sortByConfidence(recs)
	return recs, nil
}

// AvailableSoils returns the soil vocabulary the model was trained on.
func (s *ModelFertilizerScorer) AvailableSoils() []string {
	return append([]string(nil), s.artifact.Categories["soil"]...)
}

// AvailableCrops returns the crop vocabulary the model was trained on.
func (s *ModelFertilizerScorer) AvailableCrops() []string {
	return append([]string(nil), s.artifact.Categories["crop"]...)
}
