package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"farmassist/internal/repository"
	"farmassist/internal/services"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// MarketHandler handles mandi price endpoints
type MarketHandler struct {
	service *services.MarketService
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(service *services.MarketService, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *MarketHandler {
	return &MarketHandler{
		service: service,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// GetPrices handles GET /api/market/prices
func (h *MarketHandler) GetPrices(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		h.metrics.APIRequestDuration.WithLabelValues("/api/market/prices").Observe(time.Since(startTime).Seconds())
	}()

	page, limit, offset := parsePagination(r)

	filter := repository.PriceFilter{
		Limit:  limit,
		Offset: offset,
	}
	if commodity := r.URL.Query().Get("commodity"); commodity != "" {
		filter.Commodity = &commodity
	}
	if state := r.URL.Query().Get("state"); state != "" {
		filter.State = &state
	}
	if district := r.URL.Query().Get("district"); district != "" {
		filter.District = &district
	}

	prices, total, err := h.service.ListPrices(ctx, filter)
	if err != nil {
		h.logger.Error(ctx, "[API_GET_PRICES_ERROR] Failed to get prices", logging.Fields{
			"filter": filter,
		}, err)
		h.metrics.RecordAPIError("internal_error", "/api/market/prices")
		sendError(w, r, h.metrics, "failed to retrieve prices", http.StatusInternalServerError)
		return
	}

	totalPages := (total + limit - 1) / limit

	response := PaginatedResponse{
		Data:       prices,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}

	h.metrics.RecordAPIRequest("/api/market/prices", "GET", "200")
	sendJSON(w, response, http.StatusOK)
}

// GetCommodities handles GET /api/market/commodities
func (h *MarketHandler) GetCommodities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	commodities, err := h.service.ListCommodities(ctx)
	if err != nil {
		sendError(w, r, h.metrics, "failed to list commodities", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordAPIRequest("/api/market/commodities", "GET", "200")
	sendJSON(w, map[string]interface{}{"commodities": commodities}, http.StatusOK)
}

// GetQuote handles GET /api/market/quote/{commodity}
func (h *MarketHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	defer func() {
		h.metrics.APIRequestDuration.WithLabelValues("/api/market/quote").Observe(time.Since(startTime).Seconds())
	}()

	commodity := mux.Vars(r)["commodity"]
	quote, err := h.service.GetQuote(ctx, commodity)
	if err != nil {
		sendError(w, r, h.metrics, "no price data for this commodity", notFoundStatus(err))
		return
	}

	h.metrics.RecordAPIRequest("/api/market/quote", "GET", "200")
	sendJSON(w, quote, http.StatusOK)
}

// RegisterRoutes registers the market routes
func (h *MarketHandler) RegisterRoutes(public *mux.Router) {
	public.HandleFunc("/api/market/prices", h.GetPrices).Methods("GET")
	public.HandleFunc("/api/market/commodities", h.GetCommodities).Methods("GET")
	public.HandleFunc("/api/market/quote/{commodity}", h.GetQuote).Methods("GET")
}
