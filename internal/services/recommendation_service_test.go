package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmassist/internal/recommend"
)

func newRulesRecommendationService(t *testing.T, repo *fakeRecommendationRepo) *RecommendationService {
	t.Helper()
	missing := filepath.Join(t.TempDir(), "missing.json")
	cropEngine := recommend.NewCropEngine(missing, testLogger(), testCollector)
	fertilizerEngine := recommend.NewFertilizerEngine(missing, testLogger(), testCollector)
	return NewRecommendationService(cropEngine, fertilizerEngine, repo, testLogger(), testCollector)
}

func TestRecommendCropsCategorized(t *testing.T) {
	svc := newRulesRecommendationService(t, &fakeRecommendationRepo{})

	resp, err := svc.RecommendCrops(context.Background(), recommend.CropInput{
		Nitrogen: 90, Phosphorus: 45, Potassium: 40,
		Temperature: 25, Humidity: 85, PH: 6.2, Rainfall: 200,
	})
	require.NoError(t, err)

	assert.Equal(t, "Rice", resp.RecommendedCrop)
	assert.NotEmpty(t, resp.Categorized)
	assert.Equal(t, "Grains & Cereals", resp.Categorized[0].Name)
}

func TestRecommendCropsRejectsInvalidInput(t *testing.T) {
	svc := newRulesRecommendationService(t, &fakeRecommendationRepo{})

	_, err := svc.RecommendCrops(context.Background(), recommend.CropInput{
		Nitrogen: 500, Temperature: 25, Humidity: 85, PH: 6.2, Rainfall: 200,
	})
	var rangeErr *recommend.OutOfRangeError
	assert.ErrorAs(t, err, &rangeErr)
}

func TestRecommendFertilizerCategorized(t *testing.T) {
	svc := newRulesRecommendationService(t, &fakeRecommendationRepo{})

	resp, err := svc.RecommendFertilizer(context.Background(), recommend.FertilizerInput{
		Temperature: 28, Moisture: 0.5, Rainfall: 120, PH: 6.5,
		Nitrogen: 20, Phosphorus: 40, Potassium: 40, Carbon: 1.2,
		Soil: "Loamy Soil", Crop: "rice",
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RecommendedFertilizer)
	assert.NotEmpty(t, resp.Categorized)
}

func TestSaveAndDeleteCropRoundTrip(t *testing.T) {
	repo := &fakeRecommendationRepo{}
	svc := newRulesRecommendationService(t, repo)

	saved, err := svc.SaveCrop(context.Background(), "farmer-1", "Rice", 0.92)
	require.NoError(t, err)
	assert.Equal(t, "saved", saved.Status)

	list, err := svc.ListSavedCrops(context.Background(), "farmer-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Rice", list[0].CropName)

	require.NoError(t, svc.DeleteSavedCrop(context.Background(), saved.ID, "farmer-1"))

	list, err = svc.ListSavedCrops(context.Background(), "farmer-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSaveFertilizerCarriesRecommendation(t *testing.T) {
	repo := &fakeRecommendationRepo{}
	svc := newRulesRecommendationService(t, repo)

	rec := recommend.Recommendation{
		Name:                 "Urea",
		ConfidencePercentage: 72.5,
		Priority:             recommend.PriorityHigh,
		Dosage:               "20-30 kg/acre",
		Usage:                "Apply during vegetative growth",
	}
	saved, err := svc.SaveFertilizer(context.Background(), "farmer-1", rec, "rice", "Loamy Soil")
	require.NoError(t, err)

	assert.Equal(t, "Urea", saved.Name)
	assert.Equal(t, 72.5, saved.Confidence)
	assert.Equal(t, "rice", saved.CropType)

	list, err := svc.ListSavedFertilizers(context.Background(), "farmer-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestFormOptionsDefaults(t *testing.T) {
	svc := newRulesRecommendationService(t, &fakeRecommendationRepo{})

	options := svc.FormOptions()
	assert.Contains(t, options.Soils, "Loamy Soil")
	assert.Contains(t, options.Crops, "rice")
}
