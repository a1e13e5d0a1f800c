package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"farmassist/internal/models"
	"farmassist/internal/repository"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// Equipment workflow errors reported to the caller as conflict responses.
var (
	ErrEquipmentUnavailable = errors.New("equipment is not available")
	ErrNotEquipmentOwner    = errors.New("only the owner can act on this request")
	ErrOwnEquipment         = errors.New("cannot request your own equipment")
	ErrNoRentalRequest      = errors.New("equipment has no pending request")
)

// EquipmentService manages the shared equipment listings and the
// request/approve/reject/return rental workflow
type EquipmentService struct {
	repo    repository.EquipmentRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewEquipmentService creates a new equipment service
func NewEquipmentService(repo repository.EquipmentRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *EquipmentService {
	return &EquipmentService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// CreateListing publishes a machine for sharing
func (s *EquipmentService) CreateListing(ctx context.Context, ownerID, name, category string, dailyRate float64, district string) (*models.Equipment, error) {
	if name == "" {
		return nil, fmt.Errorf("equipment name is required")
	}
	if dailyRate <= 0 {
		return nil, fmt.Errorf("daily rate must be positive")
	}

	now := time.Now().UTC()
	equipment := &models.Equipment{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Name:      name,
		Category:  category,
		DailyRate: dailyRate,
		District:  district,
		Status:    models.EquipmentStatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateEquipment(ctx, equipment); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "[EQUIPMENT_LISTED] Equipment listed for sharing", logging.Fields{
		"equipment_id": equipment.ID,
		"owner_id":     ownerID,
		"category":     category,
	})

	return equipment, nil
}

// ListEquipment retrieves listings with filtering and pagination
func (s *EquipmentService) ListEquipment(ctx context.Context, filter repository.EquipmentFilter) ([]*models.Equipment, int, error) {
	return s.repo.ListEquipment(ctx, filter)
}

// RequestRental marks available equipment as requested by the caller
func (s *EquipmentService) RequestRental(ctx context.Context, equipmentID, requesterID string) (*models.Equipment, error) {
	equipment, err := s.repo.GetEquipment(ctx, equipmentID)
	if err != nil {
		return nil, err
	}
	if equipment.OwnerID == requesterID {
		return nil, ErrOwnEquipment
	}
	if equipment.Status != models.EquipmentStatusAvailable {
		return nil, ErrEquipmentUnavailable
	}

	if err := s.repo.UpdateStatus(ctx, equipmentID, models.EquipmentStatusRequested, requesterID); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "[EQUIPMENT_REQUESTED] Rental request submitted", logging.Fields{
		"equipment_id": equipmentID,
		"requester_id": requesterID,
	})

	equipment.Status = models.EquipmentStatusRequested
	equipment.RequestedBy = requesterID
	return equipment, nil
}

// ApproveRequest lets the owner accept a pending rental request
func (s *EquipmentService) ApproveRequest(ctx context.Context, equipmentID, ownerID string) error {
	return s.resolveRequest(ctx, equipmentID, ownerID, models.EquipmentStatusRented, "[EQUIPMENT_APPROVED]")
}

// RejectRequest lets the owner decline a pending rental request, returning
// the listing to available
func (s *EquipmentService) RejectRequest(ctx context.Context, equipmentID, ownerID string) error {
	return s.resolveRequest(ctx, equipmentID, ownerID, models.EquipmentStatusAvailable, "[EQUIPMENT_REJECTED]")
}

// ReturnEquipment marks rented equipment as available again. Either party
// can record the return.
func (s *EquipmentService) ReturnEquipment(ctx context.Context, equipmentID, userID string) error {
	equipment, err := s.repo.GetEquipment(ctx, equipmentID)
	if err != nil {
		return err
	}
	if equipment.Status != models.EquipmentStatusRented {
		return ErrEquipmentUnavailable
	}
	if equipment.OwnerID != userID && equipment.RequestedBy != userID {
		return ErrNotEquipmentOwner
	}

	if err := s.repo.UpdateStatus(ctx, equipmentID, models.EquipmentStatusAvailable, ""); err != nil {
		return err
	}

	s.logger.Info(ctx, "[EQUIPMENT_RETURNED] Equipment returned", logging.Fields{
		"equipment_id": equipmentID,
		"user_id":      userID,
	})

	return nil
}

func (s *EquipmentService) resolveRequest(ctx context.Context, equipmentID, ownerID, nextStatus, logTag string) error {
	equipment, err := s.repo.GetEquipment(ctx, equipmentID)
	if err != nil {
		return err
	}
	if equipment.OwnerID != ownerID {
		return ErrNotEquipmentOwner
	}
	if equipment.Status != models.EquipmentStatusRequested {
		return ErrNoRentalRequest
	}

	requestedBy := equipment.RequestedBy
	if nextStatus == models.EquipmentStatusAvailable {
		requestedBy = ""
	}
	if err := s.repo.UpdateStatus(ctx, equipmentID, nextStatus, requestedBy); err != nil {
		return err
	}

	s.logger.Info(ctx, logTag+" Rental request resolved", logging.Fields{
		"equipment_id": equipmentID,
		"owner_id":     ownerID,
		"status":       nextStatus,
	})

	return nil
}
