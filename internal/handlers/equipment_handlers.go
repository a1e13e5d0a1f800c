package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"farmassist/internal/auth"
	"farmassist/internal/repository"
	"farmassist/internal/services"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// EquipmentHandler handles shared equipment endpoints
type EquipmentHandler struct {
	service *services.EquipmentService
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewEquipmentHandler creates a new equipment handler
func NewEquipmentHandler(service *services.EquipmentService, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *EquipmentHandler {
	return &EquipmentHandler{
		service: service,
		logger:  logger,
		metrics: metricsCollector,
	}
}

type createEquipmentRequest struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	DailyRate float64 `json:"daily_rate"`
	District  string  `json:"district"`
}

// ListEquipment handles GET /api/equipment
func (h *EquipmentHandler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, limit, offset := parsePagination(r)

	filter := repository.EquipmentFilter{
		Limit:  limit,
		Offset: offset,
	}
	if district := r.URL.Query().Get("district"); district != "" {
		filter.District = &district
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter.Category = &category
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = &status
	}

	items, total, err := h.service.ListEquipment(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, "[API_EQUIPMENT_ERROR] Failed to list equipment", logging.Fields{
			"filter": filter,
		}, err)
		sendError(w, r, h.metrics, "failed to list equipment", http.StatusInternalServerError)
		return
	}

	totalPages := (total + limit - 1) / limit

	h.metrics.RecordAPIRequest("/api/equipment", "GET", "200")
	sendJSON(w, PaginatedResponse{
		Data:       items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, http.StatusOK)
}

// CreateEquipment handles POST /api/equipment
func (h *EquipmentHandler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createEquipmentRequest
	if err := decodeBody(r, &req); err != nil {
		sendError(w, r, h.metrics, "invalid request body", http.StatusBadRequest)
		return
	}

	equipment, err := h.service.CreateListing(ctx, claims.UserID, req.Name, req.Category, req.DailyRate, req.District)
	if err != nil {
		sendError(w, r, h.metrics, err.Error(), http.StatusBadRequest)
		return
	}

	h.metrics.RecordAPIRequest("/api/equipment", "POST", "201")
	sendJSON(w, equipment, http.StatusCreated)
}

// RequestRental handles POST /api/equipment/{id}/request
func (h *EquipmentHandler) RequestRental(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	equipment, err := h.service.RequestRental(ctx, mux.Vars(r)["id"], claims.UserID)
	if err != nil {
		sendError(w, r, h.metrics, err.Error(), equipmentStatusCode(err))
		return
	}

	h.metrics.RecordAPIRequest("/api/equipment", "POST", "200")
	sendJSON(w, equipment, http.StatusOK)
}

// ApproveRequest handles POST /api/equipment/{id}/approve
func (h *EquipmentHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.resolveRequest(w, r, h.service.ApproveRequest, "rented")
}

// RejectRequest handles POST /api/equipment/{id}/reject
func (h *EquipmentHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.resolveRequest(w, r, h.service.RejectRequest, "available")
}

// ReturnEquipment handles POST /api/equipment/{id}/return
func (h *EquipmentHandler) ReturnEquipment(w http.ResponseWriter, r *http.Request) {
	h.resolveRequest(w, r, h.service.ReturnEquipment, "available")
}

func (h *EquipmentHandler) resolveRequest(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, equipmentID, userID string) error, resultStatus string) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	if err := action(ctx, mux.Vars(r)["id"], claims.UserID); err != nil {
		sendError(w, r, h.metrics, err.Error(), equipmentStatusCode(err))
		return
	}

	h.metrics.RecordAPIRequest("/api/equipment", "POST", "200")
	sendJSON(w, map[string]string{"status": resultStatus}, http.StatusOK)
}

// equipmentStatusCode maps equipment workflow errors to HTTP statuses
func equipmentStatusCode(err error) int {
	switch {
	case errors.Is(err, services.ErrEquipmentUnavailable),
		errors.Is(err, services.ErrOwnEquipment),
		errors.Is(err, services.ErrNoRentalRequest):
		return http.StatusConflict
	case errors.Is(err, services.ErrNotEquipmentOwner):
		return http.StatusForbidden
	default:
		return notFoundStatus(err)
	}
}

// RegisterRoutes registers the equipment routes. Browsing is public; listing
// and the rental workflow require authentication.
func (h *EquipmentHandler) RegisterRoutes(public, protected *mux.Router) {
	public.HandleFunc("/api/equipment", h.ListEquipment).Methods("GET")

	protected.HandleFunc("/api/equipment", h.CreateEquipment).Methods("POST")
	protected.HandleFunc("/api/equipment/{id}/request", h.RequestRental).Methods("POST")
	protected.HandleFunc("/api/equipment/{id}/approve", h.ApproveRequest).Methods("POST")
	protected.HandleFunc("/api/equipment/{id}/reject", h.RejectRequest).Methods("POST")
	protected.HandleFunc("/api/equipment/{id}/return", h.ReturnEquipment).Methods("POST")
}
