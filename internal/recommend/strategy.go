package recommend

// CropStrategy scores one set of soil and climate measurements against the
// known crops. Implementations return candidates in descending confidence
// order; callers truncate to TopN.
type CropStrategy interface {
	Name() string
	Score(in CropInput) ([]Recommendation, error)
}

// FertilizerStrategy scores one fertilizer request. A returned error means
// this strategy could not rank the request at all (for example an unseen
// soil category); the engine then tries the rule-based path.
type FertilizerStrategy interface {
	Name() string
	Score(in FertilizerInput) ([]Recommendation, error)
}

var (
	_ CropStrategy       = (*RuleBasedCropScorer)(nil)
	_ CropStrategy       = (*ModelCropScorer)(nil)
	_ FertilizerStrategy = (*RuleBasedFertilizerScorer)(nil)
	_ FertilizerStrategy = (*ModelFertilizerScorer)(nil)
)
