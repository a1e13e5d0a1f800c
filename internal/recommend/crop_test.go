package recommend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleBasedCropScorer_FullMatchRankedFirst(t *testing.T) {
	scorer := NewRuleBasedCropScorer()

	recs, err := scorer.Score(riceFriendlyInput())
	require.NoError(t, err)
	require.Len(t, recs, len(cropCatalog))

	assert.Equal(t, "Rice", recs[0].Name)
	assert.Equal(t, 95.0, recs[0].ConfidencePercentage)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
	assert.Equal(t, 0.95, recs[0].Probability)
}

func TestRuleBasedCropScorer_ConfidenceFloor(t *testing.T) {
	scorer := NewRuleBasedCropScorer()

	// Nothing in the catalog tolerates these conditions.
	recs, err := scorer.Score(CropInput{
		Nitrogen:    10,
		Phosphorus:  5,
		Potassium:   5,
		Temperature: 5,
		Humidity:    10,
		PH:          9.5,
		Rainfall:    10,
	})
	require.NoError(t, err)

	for _, rec := range recs {
		assert.Equal(t, 30.0, rec.ConfidencePercentage, rec.Name)
		assert.Equal(t, PriorityLow, rec.Priority, rec.Name)
	}
}

func TestRuleBasedCropScorer_SortedDescending(t *testing.T) {
	scorer := NewRuleBasedCropScorer()

	recs, err := scorer.Score(CropInput{
		Nitrogen:    85,
		Phosphorus:  50,
		Potassium:   20,
		Temperature: 22,
		Humidity:    60,
		PH:          6.5,
		Rainfall:    90,
	})
	require.NoError(t, err)

	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].ConfidencePercentage, recs[i].ConfidencePercentage)
	}
}

func TestRuleCropPriority(t *testing.T) {
	tests := []struct {
		confidence float64
		want       Priority
	}{
		{95, PriorityHigh},
		{70, PriorityHigh},
		{69.9, PriorityMedium},
		{50, PriorityMedium},
		{49.9, PriorityLow},
		{30, PriorityLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ruleCropPriority(tt.confidence), "confidence %.1f", tt.confidence)
	}
}

func TestModelCropScorer_Probabilities(t *testing.T) {
	path := writeArtifact(t, "crop.json", testCropArtifact())
	artifact, err := LoadCropArtifact(path)
	require.NoError(t, err)

	scorer := NewModelCropScorer(artifact)

	// Nitrogen one standard deviation above the mean favors the first
	// class in the fixture.
	in := riceFriendlyInput()
	in.Nitrogen = 126
	recs, err := scorer.Score(in)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "Rice", recs[0].Name)
	assert.Greater(t, recs[0].Probability, 0.9)
	assert.Equal(t, PriorityHigh, recs[0].Priority)

	var total float64
	for _, rec := range recs {
		total += rec.Probability
	}
	assert.InDelta(t, 1.0, total, 1e-9)
}

func TestNewCropEngine_MissingArtifactUsesRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	engine := NewCropEngine(path, testLogger(), testCollector)

	assert.Equal(t, string(SourceRules), engine.Strategy())

	result := engine.Recommend(context.Background(), riceFriendlyInput())
	assert.Equal(t, SourceRules, result.Source)
	assert.Equal(t, "Rice", result.RecommendedCrop)
	require.NotEmpty(t, result.TopRecommendations)
	assert.Equal(t, result.RecommendedCrop, result.TopRecommendations[0].Name)
	assert.LessOrEqual(t, len(result.TopRecommendations), TopN)
	assert.Equal(t, riceFriendlyInput(), result.InputParameters)
}

func TestNewCropEngine_WithArtifactUsesModel(t *testing.T) {
	path := writeArtifact(t, "crop.json", testCropArtifact())
	engine := NewCropEngine(path, testLogger(), testCollector)

	assert.Equal(t, string(SourceModel), engine.Strategy())

	in := riceFriendlyInput()
	in.Nitrogen = 126
	result := engine.Recommend(context.Background(), in)
	assert.Equal(t, SourceModel, result.Source)
	assert.Equal(t, "Rice", result.RecommendedCrop)
}

type failingCropStrategy struct{}

func (failingCropStrategy) Name() string { return string(SourceModel) }
func (failingCropStrategy) Score(CropInput) ([]Recommendation, error) {
	return nil, assert.AnError
}

func TestCropEngine_ScoringFailureServesGenericEstimate(t *testing.T) {
	engine := &CropEngine{
		strategy: failingCropStrategy{},
		logger:   testLogger(),
		metrics:  testCollector,
	}

	result := engine.Recommend(context.Background(), riceFriendlyInput())

	assert.Equal(t, SourceFallback, result.Source)
	assert.Equal(t, "Rice", result.RecommendedCrop)
	require.Len(t, result.TopRecommendations, 3)
	assert.Equal(t, 85.0, result.TopRecommendations[0].ConfidencePercentage)
	assert.Equal(t, PriorityHigh, result.TopRecommendations[0].Priority)
	assert.Equal(t, "Wheat", result.TopRecommendations[1].Name)
	assert.Equal(t, PriorityMedium, result.TopRecommendations[1].Priority)
	assert.Equal(t, "Maize", result.TopRecommendations[2].Name)
	assert.Equal(t, PriorityMedium, result.TopRecommendations[2].Priority)
}
