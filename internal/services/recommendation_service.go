package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"farmassist/internal/models"
	"farmassist/internal/recommend"
	"farmassist/internal/repository"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// RecommendationService runs the scoring engines and manages saved
// recommendations
type RecommendationService struct {
	cropEngine       *recommend.CropEngine
	fertilizerEngine *recommend.FertilizerEngine
	repo             repository.RecommendationRepository
	logger           *logging.StructuredLogger
	metrics          *metrics.Collector
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(
	cropEngine *recommend.CropEngine,
	fertilizerEngine *recommend.FertilizerEngine,
	repo repository.RecommendationRepository,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *RecommendationService {
	return &RecommendationService{
		cropEngine:       cropEngine,
		fertilizerEngine: fertilizerEngine,
		repo:             repo,
		logger:           logger,
		metrics:          metricsCollector,
	}
}

// CropRecommendationResponse pairs the scoring result with its display
// grouping
type CropRecommendationResponse struct {
	recommend.CropResult
	Categorized []recommend.Category `json:"categorized_recommendations"`
}

// FertilizerRecommendationResponse pairs the scoring result with its display
// grouping and the form vocabularies
type FertilizerRecommendationResponse struct {
	recommend.FertilizerResult
	Categorized []recommend.Category `json:"categorized_recommendations,omitempty"`
}

// FertilizerFormOptions lists the soil and crop choices to offer on the
// request form
type FertilizerFormOptions struct {
	Soils []string `json:"soils"`
	Crops []string `json:"crops"`
}

// RecommendCrops validates the input and runs the crop engine
func (s *RecommendationService) RecommendCrops(ctx context.Context, in recommend.CropInput) (*CropRecommendationResponse, error) {
	if err := recommend.ValidateCropInput(in); err != nil {
		return nil, err
	}

	result := s.cropEngine.Recommend(ctx, in)

	s.logger.Info(ctx, "[CROP_RECOMMEND] Crop recommendation served", logging.Fields{
		"recommended_crop": result.RecommendedCrop,
		"source":           string(result.Source),
	})

	return &CropRecommendationResponse{
		CropResult:  result,
		Categorized: recommend.CategorizeCrops(result.TopRecommendations),
	}, nil
}

// RecommendFertilizer validates the input and runs the fertilizer engine
func (s *RecommendationService) RecommendFertilizer(ctx context.Context, in recommend.FertilizerInput) (*FertilizerRecommendationResponse, error) {
	if err := recommend.ValidateFertilizerInput(in); err != nil {
		return nil, err
	}

	result := s.fertilizerEngine.Recommend(ctx, in)

	response := &FertilizerRecommendationResponse{FertilizerResult: result}
	if result.Success {
		response.Categorized = recommend.CategorizeFertilizers(result.TopRecommendations)
		s.logger.Info(ctx, "[FERTILIZER_RECOMMEND] Fertilizer recommendation served", logging.Fields{
			"recommended_fertilizer": result.RecommendedFertilizer,
			"source":                 string(result.Source),
		})
	}

	return response, nil
}

// FormOptions returns the soil and crop vocabularies for the request form
func (s *RecommendationService) FormOptions() FertilizerFormOptions {
	return FertilizerFormOptions{
		Soils: s.fertilizerEngine.AvailableSoils(),
		Crops: s.fertilizerEngine.AvailableCrops(),
	}
}

// SaveCrop persists a crop recommendation to the user's dashboard
func (s *RecommendationService) SaveCrop(ctx context.Context, userID, cropName string, probability float64) (*models.SavedCrop, error) {
	crop := &models.SavedCrop{
		ID:          uuid.NewString(),
		UserID:      userID,
		CropName:    cropName,
		Probability: probability,
		SowingDate:  time.Now().UTC(),
		Status:      "saved",
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.SaveCrop(ctx, crop); err != nil {
		return nil, err
	}
	return crop, nil
}

// ListSavedCrops retrieves the user's saved crop recommendations
func (s *RecommendationService) ListSavedCrops(ctx context.Context, userID string) ([]*models.SavedCrop, error) {
	return s.repo.ListCrops(ctx, userID)
}

// DeleteSavedCrop removes a saved crop recommendation
func (s *RecommendationService) DeleteSavedCrop(ctx context.Context, id, userID string) error {
	return s.repo.DeleteCrop(ctx, id, userID)
}

// SaveFertilizer persists a fertilizer recommendation to the user's
// dashboard
func (s *RecommendationService) SaveFertilizer(ctx context.Context, userID string, rec recommend.Recommendation, cropType, soilType string) (*models.SavedFertilizer, error) {
	fertilizer := &models.SavedFertilizer{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       rec.Name,
		CropType:   cropType,
		SoilType:   soilType,
		Priority:   string(rec.Priority),
		Dosage:     rec.Dosage,
		Usage:      rec.Usage,
		Note:       rec.Note,
		Confidence: rec.ConfidencePercentage,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.SaveFertilizer(ctx, fertilizer); err != nil {
		return nil, err
	}
	return fertilizer, nil
}

// ListSavedFertilizers retrieves the user's saved fertilizer recommendations
func (s *RecommendationService) ListSavedFertilizers(ctx context.Context, userID string) ([]*models.SavedFertilizer, error) {
	return s.repo.ListFertilizers(ctx, userID)
}

// DeleteSavedFertilizer removes a saved fertilizer recommendation
func (s *RecommendationService) DeleteSavedFertilizer(ctx context.Context, id, userID string) error {
	return s.repo.DeleteFertilizer(ctx, id, userID)
}
