package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"farmassist/internal/auth"
	"farmassist/internal/services"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// GrowingHandler handles growing activity, task and expense endpoints
type GrowingHandler struct {
	service *services.GrowingService
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewGrowingHandler creates a new growing handler
func NewGrowingHandler(service *services.GrowingService, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *GrowingHandler {
	return &GrowingHandler{
		service: service,
		logger:  logger,
		metrics: metricsCollector,
	}
}

type startActivityRequest struct {
	CropName   string  `json:"crop_name"`
	AreaAcres  float64 `json:"area_acres"`
	SowingDate string  `json:"sowing_date"`
	Notes      string  `json:"notes"`
}

// ListGuides handles GET /api/growing/guides
func (h *GrowingHandler) ListGuides(w http.ResponseWriter, r *http.Request) {
	guides := map[string]interface{}{
		"crops": services.AvailableGuides(),
	}
	h.metrics.RecordAPIRequest("/api/growing/guides", "GET", "200")
	sendJSON(w, guides, http.StatusOK)
}

// GetGuide handles GET /api/growing/guides/{crop}
func (h *GrowingHandler) GetGuide(w http.ResponseWriter, r *http.Request) {
	crop := mux.Vars(r)["crop"]
	guide, ok := services.GuideFor(crop)
	if !ok {
		sendError(w, r, h.metrics, "no cultivation guide for this crop", http.StatusNotFound)
		return
	}
	h.metrics.RecordAPIRequest("/api/growing/guides", "GET", "200")
	sendJSON(w, guide, http.StatusOK)
}

// StartActivity handles POST /api/growing
func (h *GrowingHandler) StartActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req startActivityRequest
	if err := decodeBody(r, &req); err != nil {
		sendError(w, r, h.metrics, "invalid request body", http.StatusBadRequest)
		return
	}

	sowingDate := time.Now().UTC()
	if req.SowingDate != "" {
		parsed, err := time.Parse("2006-01-02", req.SowingDate)
		if err != nil {
			sendError(w, r, h.metrics, "invalid sowing_date format, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		sowingDate = parsed
	}

	activity, err := h.service.StartActivity(ctx, claims.UserID, req.CropName, req.AreaAcres, sowingDate, req.Notes)
	if err != nil {
		sendError(w, r, h.metrics, err.Error(), http.StatusBadRequest)
		return
	}

	h.metrics.RecordAPIRequest("/api/growing", "POST", "201")
	sendJSON(w, activity, http.StatusCreated)
}

// ListActivities handles GET /api/growing
func (h *GrowingHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = &s
	}

	activities, err := h.service.ListActivities(ctx, claims.UserID, status)
	if err != nil {
		sendError(w, r, h.metrics, "failed to list activities", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/growing", "GET", "200")
	sendJSON(w, activities, http.StatusOK)
}

// GetActivity handles GET /api/growing/{id}
func (h *GrowingHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	detail, err := h.service.GetActivityDetail(ctx, mux.Vars(r)["id"], claims.UserID)
	if err != nil {
		sendError(w, r, h.metrics, "activity not found", notFoundStatus(err))
		return
	}

	h.metrics.RecordAPIRequest("/api/growing", "GET", "200")
	sendJSON(w, detail, http.StatusOK)
}

// CompleteActivity handles POST /api/growing/{id}/complete
func (h *GrowingHandler) CompleteActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.service.CompleteActivity(ctx, id, claims.UserID); err != nil {
		sendError(w, r, h.metrics, "activity not found or not active", notFoundStatus(err))
		return
	}

	h.metrics.RecordAPIRequest("/api/growing", "POST", "200")
	sendJSON(w, map[string]string{"status": "completed"}, http.StatusOK)
}

// CompleteTask handles POST /api/growing/{id}/tasks/{taskID}/complete
func (h *GrowingHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	if err := h.service.CompleteTask(ctx, vars["taskID"], vars["id"], claims.UserID); err != nil {
		sendError(w, r, h.metrics, "task not found", notFoundStatus(err))
		return
	}

	h.metrics.RecordAPIRequest("/api/growing", "POST", "200")
	sendJSON(w, map[string]string{"status": "completed"}, http.StatusOK)
}

type addExpenseRequest struct {
	ActivityID string  `json:"activity_id"`
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Note       string  `json:"note"`
	SpentAt    string  `json:"spent_at"`
}

// AddExpense handles POST /api/expenses
func (h *GrowingHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req addExpenseRequest
	if err := decodeBody(r, &req); err != nil {
		sendError(w, r, h.metrics, "invalid request body", http.StatusBadRequest)
		return
	}

	spentAt := time.Now().UTC()
	if req.SpentAt != "" {
		parsed, err := time.Parse("2006-01-02", req.SpentAt)
		if err != nil {
			sendError(w, r, h.metrics, "invalid spent_at format, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		spentAt = parsed
	}

	expense, err := h.service.AddExpense(ctx, claims.UserID, req.ActivityID, req.Category, req.Amount, req.Note, spentAt)
	if err != nil {
		sendError(w, r, h.metrics, err.Error(), http.StatusBadRequest)
		return
	}

	h.metrics.RecordAPIRequest("/api/expenses", "POST", "201")
	sendJSON(w, expense, http.StatusCreated)
}

// ListExpenses handles GET /api/expenses
func (h *GrowingHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	expenses, err := h.service.ListExpenses(ctx, claims.UserID)
	if err != nil {
		sendError(w, r, h.metrics, "failed to list expenses", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/expenses", "GET", "200")
	sendJSON(w, expenses, http.StatusOK)
}

// RegisterRoutes registers the growing routes. Guides are public; activity
// and expense tracking require authentication.
func (h *GrowingHandler) RegisterRoutes(public, protected *mux.Router) {
	public.HandleFunc("/api/growing/guides", h.ListGuides).Methods("GET")
	public.HandleFunc("/api/growing/guides/{crop}", h.GetGuide).Methods("GET")

	protected.HandleFunc("/api/growing", h.StartActivity).Methods("POST")
	protected.HandleFunc("/api/growing", h.ListActivities).Methods("GET")
	protected.HandleFunc("/api/growing/{id}", h.GetActivity).Methods("GET")
	protected.HandleFunc("/api/growing/{id}/complete", h.CompleteActivity).Methods("POST")
	protected.HandleFunc("/api/growing/{id}/tasks/{taskID}/complete", h.CompleteTask).Methods("POST")
	protected.HandleFunc("/api/expenses", h.AddExpense).Methods("POST")
	protected.HandleFunc("/api/expenses", h.ListExpenses).Methods("GET")
}
