package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"farmassist/internal/repository"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// HealthHandler handles the service health endpoint
type HealthHandler struct {
	users   repository.UserRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(users repository.UserRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *HealthHandler {
	return &HealthHandler{
		users:   users,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := map[string]string{
		"status":    "healthy",
		"database":  "up",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	code := http.StatusOK

	if err := h.users.HealthCheck(ctx); err != nil {
		h.logger.Error(ctx, "[HEALTH_CHECK_FAILED] Database health check failed", logging.Fields{}, err)
		status["status"] = "degraded"
		status["database"] = "down"
		code = http.StatusServiceUnavailable
	}

	h.logger.Debug(ctx, "[HEALTH_CHECK] Health check requested", logging.Fields{})
	sendJSON(w, status, code)
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(public *mux.Router) {
	public.HandleFunc("/health", h.HealthCheck).Methods("GET")
}
