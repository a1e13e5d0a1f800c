package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"farmassist/internal/models"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// MandiClient fetches commodity prices from the data.gov.in mandi price API.
// A circuit breaker keeps a flapping upstream from stalling every sync run.
type MandiClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *logging.StructuredLogger
	metrics    *metrics.Collector
}

// MandiConfig holds the upstream API settings
type MandiConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewMandiClient creates a client for the mandi price API
func NewMandiClient(cfg MandiConfig, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *MandiClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "mandi-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(context.Background(), "[MANDI_BREAKER] Circuit breaker state changed", logging.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})

	return &MandiClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		logger:     logger,
		metrics:    metricsCollector,
	}
}

// mandiResponse mirrors the upstream payload. Numeric fields arrive as
// strings in some records and numbers in others, so they decode through
// flexibleFloat.
type mandiResponse struct {
	Total   int           `json:"total"`
	Count   int           `json:"count"`
	Records []mandiRecord `json:"records"`
}

type mandiRecord struct {
	State       string        `json:"state"`
	District    string        `json:"district"`
	Market      string        `json:"market"`
	Commodity   string        `json:"commodity"`
	ArrivalDate string        `json:"arrival_date"`
	MinPrice    flexibleFloat `json:"min_price"`
	MaxPrice    flexibleFloat `json:"max_price"`
	ModalPrice  flexibleFloat `json:"modal_price"`
}

type flexibleFloat float64

func (f *flexibleFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" || s == "NR" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid price value %q: %w", s, err)
	}
	*f = flexibleFloat(v)
	return nil
}

// FetchPrices retrieves one page of price records. Malformed records are
// skipped and counted rather than failing the page.
func (c *MandiClient) FetchPrices(ctx context.Context, limit, offset int) ([]*models.MarketPrice, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetchPage(ctx, limit, offset)
	})
	if err != nil {
		c.metrics.RecordPriceSyncError("fetch_error")
		return nil, err
	}
	return result.([]*models.MarketPrice), nil
}

func (c *MandiClient) fetchPage(ctx context.Context, limit, offset int) ([]*models.MarketPrice, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid mandi API URL: %w", err)
	}

	q := endpoint.Query()
	q.Set("api-key", c.apiKey)
	q.Set("format", "json")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mandi API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("mandi API returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload mandiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode mandi response: %w", err)
	}

	prices := make([]*models.MarketPrice, 0, len(payload.Records))
	skipped := 0
	now := time.Now().UTC()
	for _, record := range payload.Records {
		price, err := record.toMarketPrice(now)
		if err != nil {
			skipped++
			continue
		}
		prices = append(prices, price)
	}

	if skipped > 0 {
		c.logger.Warn(ctx, "[MANDI_SKIPPED_RECORDS] Skipped malformed price records", logging.Fields{
			"skipped": skipped,
			"total":   len(payload.Records),
		})
		c.metrics.RecordPriceSyncError("malformed_record")
	}

	return prices, nil
}

func (r mandiRecord) toMarketPrice(now time.Time) (*models.MarketPrice, error) {
	if r.Commodity == "" || r.Market == "" {
		return nil, fmt.Errorf("missing commodity or market")
	}

	arrival, err := parseArrivalDate(r.ArrivalDate)
	if err != nil {
		return nil, err
	}

	if r.ModalPrice <= 0 {
		return nil, fmt.Errorf("non-positive modal price")
	}

	return &models.MarketPrice{
		Commodity:   r.Commodity,
		Market:      r.Market,
		State:       r.State,
		District:    r.District,
		MinPrice:    float64(r.MinPrice),
		MaxPrice:    float64(r.MaxPrice),
		ModalPrice:  float64(r.ModalPrice),
		ArrivalDate: arrival,
		CreatedAt:   now,
	}, nil
}

// parseArrivalDate accepts the two date layouts the upstream has been seen
// to emit.
func parseArrivalDate(value string) (time.Time, error) {
	for _, layout := range []string{"02/01/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized arrival date %q", value)
}
