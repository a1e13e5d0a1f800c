package repository

import (
	"context"
	"fmt"

	"farmassist/internal/models"
	"farmassist/pkg/database"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// RecommendationRepository persists crop and fertilizer recommendations the
// user saved to their dashboard
type RecommendationRepository interface {
	SaveCrop(ctx context.Context, crop *models.SavedCrop) error
	ListCrops(ctx context.Context, userID string) ([]*models.SavedCrop, error)
	DeleteCrop(ctx context.Context, id, userID string) error

	SaveFertilizer(ctx context.Context, fertilizer *models.SavedFertilizer) error
	ListFertilizers(ctx context.Context, userID string) ([]*models.SavedFertilizer, error)
	DeleteFertilizer(ctx context.Context, id, userID string) error
}

type recommendationRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewRecommendationRepository creates a new recommendation repository
func NewRecommendationRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) RecommendationRepository {
	return &recommendationRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// SaveCrop persists one crop recommendation
func (r *recommendationRepository) SaveCrop(ctx context.Context, crop *models.SavedCrop) error {
	query := `
		INSERT INTO saved_crops (id, user_id, crop_name, probability, sowing_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, "insert_saved_crop", query,
		crop.ID,
		crop.UserID,
		crop.CropName,
		crop.Probability,
		crop.SowingDate,
		crop.Status,
		crop.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save crop recommendation: %w", err)
	}

	r.logger.Debug(ctx, "[REPO_SAVE_CROP] Crop recommendation saved", logging.Fields{
		"user_id":   crop.UserID,
		"crop_name": crop.CropName,
	})

	return nil
}

// ListCrops retrieves the user's saved crop recommendations, newest first
func (r *recommendationRepository) ListCrops(ctx context.Context, userID string) ([]*models.SavedCrop, error) {
	query := `
		SELECT id, user_id, crop_name, probability, sowing_date, status, created_at
		FROM saved_crops
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var crops []*models.SavedCrop
	err := r.db.SelectContext(ctx, "list_saved_crops", &crops, query, userID)

	if err != nil {
		return nil, fmt.Errorf("failed to list saved crops: %w", err)
	}

	return crops, nil
}

// DeleteCrop removes a saved crop recommendation. The user scope prevents
// deleting another account's rows.
func (r *recommendationRepository) DeleteCrop(ctx context.Context, id, userID string) error {
	query := `DELETE FROM saved_crops WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, "delete_saved_crop", query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete saved crop: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return &NotFoundError{Resource: "saved_crop", ID: id}
	}

	return nil
}

// SaveFertilizer persists one fertilizer recommendation
func (r *recommendationRepository) SaveFertilizer(ctx context.Context, fertilizer *models.SavedFertilizer) error {
	query := `
		INSERT INTO saved_fertilizers (
			id, user_id, name, crop_type, soil_type,
			priority, dosage, usage, note, confidence, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, "insert_saved_fertilizer", query,
		fertilizer.ID,
		fertilizer.UserID,
		fertilizer.Name,
		fertilizer.CropType,
		fertilizer.SoilType,
		fertilizer.Priority,
		fertilizer.Dosage,
		fertilizer.Usage,
		fertilizer.Note,
		fertilizer.Confidence,
		fertilizer.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to save fertilizer recommendation: %w", err)
	}

	r.logger.Debug(ctx, "[REPO_SAVE_FERTILIZER] Fertilizer recommendation saved", logging.Fields{
		"user_id": fertilizer.UserID,
		"name":    fertilizer.Name,
	})

	return nil
}

// ListFertilizers retrieves the user's saved fertilizer recommendations,
// newest first
func (r *recommendationRepository) ListFertilizers(ctx context.Context, userID string) ([]*models.SavedFertilizer, error) {
	query := `
		SELECT id, user_id, name, crop_type, soil_type,
		       priority, dosage, usage, note, confidence, created_at
		FROM saved_fertilizers
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var fertilizers []*models.SavedFertilizer
	err := r.db.SelectContext(ctx, "list_saved_fertilizers", &fertilizers, query, userID)

	if err != nil {
		return nil, fmt.Errorf("failed to list saved fertilizers: %w", err)
	}

	return fertilizers, nil
}

// DeleteFertilizer removes a saved fertilizer recommendation
func (r *recommendationRepository) DeleteFertilizer(ctx context.Context, id, userID string) error {
	query := `DELETE FROM saved_fertilizers WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, "delete_saved_fertilizer", query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete saved fertilizer: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return &NotFoundError{Resource: "saved_fertilizer", ID: id}
	}

	return nil
}
