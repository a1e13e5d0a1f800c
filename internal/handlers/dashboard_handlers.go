package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"farmassist/internal/auth"
	"farmassist/internal/services"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// DashboardHandler handles the dashboard and report endpoints
type DashboardHandler struct {
	dashboard *services.DashboardService
	reports   *services.ReportService
	logger    *logging.StructuredLogger
	metrics   *metrics.Collector
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(
	dashboard *services.DashboardService,
	reports *services.ReportService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
		reports:   reports,
		logger:    logger,
		metrics:   metricsCollector,
	}
}

// GetOverview handles GET /api/dashboard
func (h *DashboardHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		h.metrics.APIRequestDuration.WithLabelValues("/api/dashboard").Observe(time.Since(startTime).Seconds())
	}()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	overview, err := h.dashboard.Overview(ctx, claims.UserID)
	if err != nil {
		h.logger.Error(ctx, "[API_DASHBOARD_ERROR] Failed to build overview", logging.Fields{
			"user_id": claims.UserID,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/dashboard")
		sendError(w, r, h.metrics, "failed to load dashboard", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/dashboard", "GET", "200")
	sendJSON(w, overview, http.StatusOK)
}

// reportResponse wraps report payloads with the success flag the report
// consumers expect
type reportResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

func (h *DashboardHandler) sendReport(w http.ResponseWriter, r *http.Request, route string, data interface{}, err error) {
	if err != nil {
		if errors.Is(err, services.ErrNoReportData) {
			h.metrics.RecordAPIRequest(route, "GET", "200")
			sendJSON(w, reportResponse{Success: false, Message: err.Error()}, http.StatusOK)
			return
		}
		h.logger.Error(r.Context(), "[API_REPORT_ERROR] Failed to build report", logging.Fields{
			"route": route,
		}, err)
		h.metrics.RecordAPIError("internal_error", route)
		sendError(w, r, h.metrics, "failed to build report", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest(route, "GET", "200")
	sendJSON(w, reportResponse{Success: true, Data: data}, http.StatusOK)
}

// GetCropPlanReport handles GET /api/report/crop-plan
func (h *DashboardHandler) GetCropPlanReport(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.UserFromContext(r.Context())
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}
	report, err := h.reports.CropPlan(r.Context(), claims.UserID)
	h.sendReport(w, r, "/api/report/crop-plan", report, err)
}

// GetHarvestReport handles GET /api/report/harvest
func (h *DashboardHandler) GetHarvestReport(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.UserFromContext(r.Context())
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}
	report, err := h.reports.Harvest(r.Context(), claims.UserID)
	h.sendReport(w, r, "/api/report/harvest", report, err)
}

// GetProfitReport handles GET /api/report/profit
func (h *DashboardHandler) GetProfitReport(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.UserFromContext(r.Context())
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}
	report, err := h.reports.Profit(r.Context(), claims.UserID)
	h.sendReport(w, r, "/api/report/profit", report, err)
}

// RegisterRoutes registers the dashboard and report routes
func (h *DashboardHandler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/api/dashboard", h.GetOverview).Methods("GET")
	protected.HandleFunc("/api/report/crop-plan", h.GetCropPlanReport).Methods("GET")
	protected.HandleFunc("/api/report/harvest", h.GetHarvestReport).Methods("GET")
	protected.HandleFunc("/api/report/profit", h.GetProfitReport).Methods("GET")
}
