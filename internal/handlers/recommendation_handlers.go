package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"farmassist/internal/auth"
	"farmassist/internal/recommend"
	"farmassist/internal/services"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// RecommendationHandler handles crop and fertilizer recommendation endpoints
type RecommendationHandler struct {
	service *services.RecommendationService
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(
	service *services.RecommendationService,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *RecommendationHandler {
	return &RecommendationHandler{
		service: service,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// RecommendCrop handles POST /api/recommend/crop
func (h *RecommendationHandler) RecommendCrop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		h.metrics.APIRequestDuration.WithLabelValues("/api/recommend/crop").Observe(time.Since(startTime).Seconds())
	}()

	var input recommend.CropInput
	if err := decodeBody(r, &input); err != nil {
		sendError(w, r, h.metrics, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.RecommendCrops(ctx, input)
	if err != nil {
		var rangeErr *recommend.OutOfRangeError
		if errors.As(err, &rangeErr) {
			sendError(w, r, h.metrics, rangeErr.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error(ctx, "[API_RECOMMEND_CROP_ERROR] Crop recommendation failed", logging.Fields{}, err)
		h.metrics.RecordAPIError("internal_error", "/api/recommend/crop")
		sendError(w, r, h.metrics, "failed to generate recommendation", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/recommend/crop", "POST", "200")
	sendJSON(w, result, http.StatusOK)
}

// RecommendFertilizer handles POST /api/recommend/fertilizer
func (h *RecommendationHandler) RecommendFertilizer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		h.metrics.APIRequestDuration.WithLabelValues("/api/recommend/fertilizer").Observe(time.Since(startTime).Seconds())
	}()

	var input recommend.FertilizerInput
	if err := decodeBody(r, &input); err != nil {
		sendError(w, r, h.metrics, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.service.RecommendFertilizer(ctx, input)
	if err != nil {
		var rangeErr *recommend.OutOfRangeError
		if errors.As(err, &rangeErr) {
			sendError(w, r, h.metrics, rangeErr.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error(ctx, "[API_RECOMMEND_FERTILIZER_ERROR] Fertilizer recommendation failed", logging.Fields{}, err)
		h.metrics.RecordAPIError("internal_error", "/api/recommend/fertilizer")
		sendError(w, r, h.metrics, "failed to generate recommendation", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/recommend/fertilizer", "POST", "200")
	sendJSON(w, result, http.StatusOK)
}

// FertilizerOptions handles GET /api/recommend/fertilizer/options
func (h *RecommendationHandler) FertilizerOptions(w http.ResponseWriter, r *http.Request) {
	h.metrics.RecordAPIRequest("/api/recommend/fertilizer/options", "GET", "200")
	sendJSON(w, h.service.FormOptions(), http.StatusOK)
}

type saveCropRequest struct {
	CropName    string  `json:"crop_name"`
	Probability float64 `json:"probability"`
}

// SaveCrop handles POST /api/crops/saved
func (h *RecommendationHandler) SaveCrop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req saveCropRequest
	if err := decodeBody(r, &req); err != nil || req.CropName == "" {
		sendError(w, r, h.metrics, "crop_name is required", http.StatusBadRequest)
		return
	}

	saved, err := h.service.SaveCrop(ctx, claims.UserID, req.CropName, req.Probability)
	if err != nil {
		h.logger.Error(ctx, "[API_SAVE_CROP_ERROR] Failed to save crop", logging.Fields{
			"user_id": claims.UserID,
		}, err)
		sendError(w, r, h.metrics, "failed to save crop", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/crops/saved", "POST", "201")
	sendJSON(w, saved, http.StatusCreated)
}

// ListSavedCrops handles GET /api/crops/saved
func (h *RecommendationHandler) ListSavedCrops(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	crops, err := h.service.ListSavedCrops(ctx, claims.UserID)
	if err != nil {
		sendError(w, r, h.metrics, "failed to list saved crops", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/crops/saved", "GET", "200")
	sendJSON(w, crops, http.StatusOK)
}

// DeleteSavedCrop handles DELETE /api/crops/saved/{id}
func (h *RecommendationHandler) DeleteSavedCrop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.service.DeleteSavedCrop(ctx, id, claims.UserID); err != nil {
		sendError(w, r, h.metrics, "saved crop not found", notFoundStatus(err))
		return
	}

	h.metrics.RecordAPIRequest("/api/crops/saved", "DELETE", "204")
	w.WriteHeader(http.StatusNoContent)
}

type saveFertilizerRequest struct {
	Recommendation recommend.Recommendation `json:"recommendation"`
	CropType       string                   `json:"crop_type"`
	SoilType       string                   `json:"soil_type"`
}

// SaveFertilizer handles POST /api/fertilizers/saved
func (h *RecommendationHandler) SaveFertilizer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req saveFertilizerRequest
	if err := decodeBody(r, &req); err != nil || req.Recommendation.Name == "" {
		sendError(w, r, h.metrics, "recommendation.name is required", http.StatusBadRequest)
		return
	}

	saved, err := h.service.SaveFertilizer(ctx, claims.UserID, req.Recommendation, req.CropType, req.SoilType)
	if err != nil {
		h.logger.Error(ctx, "[API_SAVE_FERTILIZER_ERROR] Failed to save fertilizer", logging.Fields{
			"user_id": claims.UserID,
		}, err)
		sendError(w, r, h.metrics, "failed to save fertilizer", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/fertilizers/saved", "POST", "201")
	sendJSON(w, saved, http.StatusCreated)
}

// ListSavedFertilizers handles GET /api/fertilizers/saved
func (h *RecommendationHandler) ListSavedFertilizers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	fertilizers, err := h.service.ListSavedFertilizers(ctx, claims.UserID)
	if err != nil {
		sendError(w, r, h.metrics, "failed to list saved fertilizers", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/fertilizers/saved", "GET", "200")
	sendJSON(w, fertilizers, http.StatusOK)
}

// DeleteSavedFertilizer handles DELETE /api/fertilizers/saved/{id}
func (h *RecommendationHandler) DeleteSavedFertilizer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, ok := auth.UserFromContext(ctx)
	if !ok {
		sendError(w, r, h.metrics, "unauthorized", http.StatusUnauthorized)
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.service.DeleteSavedFertilizer(ctx, id, claims.UserID); err != nil {
		sendError(w, r, h.metrics, "saved fertilizer not found", notFoundStatus(err))
		return
	}

	h.metrics.RecordAPIRequest("/api/fertilizers/saved", "DELETE", "204")
	w.WriteHeader(http.StatusNoContent)
}

// RegisterRoutes registers the recommendation routes. Scoring and form
// options are public; saved lists require authentication.
func (h *RecommendationHandler) RegisterRoutes(public, protected *mux.Router) {
	public.HandleFunc("/api/recommend/crop", h.RecommendCrop).Methods("POST")
	public.HandleFunc("/api/recommend/fertilizer", h.RecommendFertilizer).Methods("POST")
	public.HandleFunc("/api/recommend/fertilizer/options", h.FertilizerOptions).Methods("GET")

	protected.HandleFunc("/api/crops/saved", h.SaveCrop).Methods("POST")
	protected.HandleFunc("/api/crops/saved", h.ListSavedCrops).Methods("GET")
	protected.HandleFunc("/api/crops/saved/{id}", h.DeleteSavedCrop).Methods("DELETE")
	protected.HandleFunc("/api/fertilizers/saved", h.SaveFertilizer).Methods("POST")
	protected.HandleFunc("/api/fertilizers/saved", h.ListSavedFertilizers).Methods("GET")
	protected.HandleFunc("/api/fertilizers/saved/{id}", h.DeleteSavedFertilizer).Methods("DELETE")
}
