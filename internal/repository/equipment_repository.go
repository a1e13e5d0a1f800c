package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"farmassist/internal/models"
	"farmassist/pkg/database"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// EquipmentRepository provides data access for shared farm equipment
type EquipmentRepository interface {
	CreateEquipment(ctx context.Context, equipment *models.Equipment) error
	GetEquipment(ctx context.Context, id string) (*models.Equipment, error)
	ListEquipment(ctx context.Context, filter EquipmentFilter) ([]*models.Equipment, int, error)
	UpdateStatus(ctx context.Context, id, status, requestedBy string) error
}

// EquipmentFilter defines filters for querying the equipment listings
type EquipmentFilter struct {
	District *string
	Category *string
	Status   *string
	Limit    int
	Offset   int
}

type equipmentRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewEquipmentRepository creates a new equipment repository
func NewEquipmentRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) EquipmentRepository {
	return &equipmentRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// CreateEquipment lists a new machine for sharing
func (r *equipmentRepository) CreateEquipment(ctx context.Context, equipment *models.Equipment) error {
	query := `
		INSERT INTO equipment (
			id, owner_id, name, category, daily_rate,
			district, status, requested_by, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, $10)
	`

	_, err := r.db.ExecContext(ctx, "insert_equipment", query,
		equipment.ID,
		equipment.OwnerID,
		equipment.Name,
		equipment.Category,
		equipment.DailyRate,
		equipment.District,
		equipment.Status,
		equipment.RequestedBy,
		equipment.CreatedAt,
		equipment.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create equipment: %w", err)
	}

	r.logger.Debug(ctx, "[REPO_CREATE_EQUIPMENT] Equipment listed", logging.Fields{
		"equipment_id": equipment.ID,
		"owner_id":     equipment.OwnerID,
	})

	return nil
}

// GetEquipment retrieves one listing by ID
func (r *equipmentRepository) GetEquipment(ctx context.Context, id string) (*models.Equipment, error) {
	query := `
		SELECT id, owner_id, name, category, daily_rate,
		       district, status, COALESCE(requested_by, '') AS requested_by, created_at, updated_at
		FROM equipment
		WHERE id = $1
	`

	var equipment models.Equipment
	err := r.db.GetContext(ctx, "get_equipment", &equipment, query, id)

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "equipment", ID: id}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get equipment: %w", err)
	}

	return &equipment, nil
}

// ListEquipment retrieves listings with filtering and pagination
func (r *equipmentRepository) ListEquipment(ctx context.Context, filter EquipmentFilter) ([]*models.Equipment, int, error) {
	query := `
		SELECT id, owner_id, name, category, daily_rate,
		       district, status, COALESCE(requested_by, '') AS requested_by, created_at, updated_at
		FROM equipment
		WHERE 1=1
	`
	args := []interface{}{}
	argNum := 1

	if filter.District != nil {
		query += fmt.Sprintf(" AND district = $%d", argNum)
		args = append(args, *filter.District)
		argNum++
	}

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argNum)
		args = append(args, *filter.Category)
		argNum++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, *filter.Status)
		argNum++
	}

	// Get total count
	countQuery := "SELECT COUNT(*) FROM (" + query + ") AS count_query"
	var totalCount int
	err := r.db.GetContext(ctx, "count_equipment", &totalCount, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count equipment: %w", err)
	}

	// Add ordering and pagination
	query += " ORDER BY created_at DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var listings []*models.Equipment
	err = r.db.SelectContext(ctx, "list_equipment", &listings, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list equipment: %w", err)
	}

	return listings, totalCount, nil
}

// UpdateStatus moves a listing through its rental lifecycle. A cleared
// requestedBy releases the hold.
func (r *equipmentRepository) UpdateStatus(ctx context.Context, id, status, requestedBy string) error {
	query := `
		UPDATE equipment
		SET status = $2, requested_by = NULLIF($3, ''), updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, "update_equipment_status", query, id, status, requestedBy, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update equipment status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return &NotFoundError{Resource: "equipment", ID: id}
	}

	return nil
}
