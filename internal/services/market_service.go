package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/montanaflynn/stats"

	"farmassist/internal/clients"
	"farmassist/internal/models"
	"farmassist/internal/repository"
	"farmassist/pkg/cache"
	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

const (
	priceSyncPageSize = 500
	trendWindowDays   = 30

	// Percent change below this magnitude reads as stable.
	stableTrendBand = 2.0
)

// MarketService serves mandi price quotes and runs the upstream sync.
// Reads go cache first, then the price table; the upstream API is only
// touched by SyncPrices.
type MarketService struct {
	repo     repository.MarketRepository
	client   *clients.MandiClient
	cache    *cache.Cache
	cacheTTL time.Duration
	logger   *logging.StructuredLogger
	metrics  *metrics.Collector
}

// NewMarketService creates a new market service
func NewMarketService(
	repo repository.MarketRepository,
	client *clients.MandiClient,
	priceCache *cache.Cache,
	cacheTTL time.Duration,
	logger *logging.StructuredLogger,
	metricsCollector *metrics.Collector,
) *MarketService {
	return &MarketService{
		repo:     repo,
		client:   client,
		cache:    priceCache,
		cacheTTL: cacheTTL,
		logger:   logger,
		metrics:  metricsCollector,
	}
}

// ListPrices retrieves stored price records with filtering and pagination
func (s *MarketService) ListPrices(ctx context.Context, filter repository.PriceFilter) ([]*models.MarketPrice, int, error) {
	return s.repo.GetPrices(ctx, filter)
}

// ListCommodities retrieves the commodities with stored prices
func (s *MarketService) ListCommodities(ctx context.Context) ([]string, error) {
	return s.repo.ListCommodities(ctx)
}

// GetQuote returns the latest price for a commodity enriched with trend
// fields derived from its recent history
func (s *MarketService) GetQuote(ctx context.Context, commodity string) (*models.MarketQuote, error) {
	cacheKey := fmt.Sprintf("market:quote:%s", commodity)

	if s.cache != nil {
		var cached models.MarketQuote
		if hit, err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, nil
		}
	}

	latest, err := s.repo.GetLatestPrice(ctx, commodity)
	if err != nil {
		return nil, err
	}

	since := time.Now().UTC().AddDate(0, 0, -trendWindowDays)
	history, err := s.repo.GetPriceHistory(ctx, commodity, since)
	if err != nil {
		return nil, err
	}

	quote := buildQuote(latest, history)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cacheKey, quote, s.cacheTTL); err != nil {
			s.logger.Warn(ctx, "[MARKET_CACHE] Failed to cache quote", logging.Fields{
				"commodity": commodity,
			})
		}
	}

	return quote, nil
}

// buildQuote derives the trend fields from the history window. With fewer
// than two points the quote is flat with minimal confidence.
func buildQuote(latest *models.MarketPrice, history []*models.MarketPrice) *models.MarketQuote {
	quote := &models.MarketQuote{
		MarketPrice:  *latest,
		ModalPriceKg: models.PerKg(latest.ModalPrice),
		MinPriceKg:   models.PerKg(latest.MinPrice),
		MaxPriceKg:   models.PerKg(latest.MaxPrice),
		Trend:        "stable",
		Projected7d:  latest.ModalPrice,
		Confidence:   30,
	}

	if len(history) < 2 {
		return quote
	}

	first := history[0].ModalPrice
	last := history[len(history)-1].ModalPrice
	if first > 0 {
		quote.ChangePercent = math.Round((last-first)/first*1000) / 10
	}

	switch {
	case quote.ChangePercent > stableTrendBand:
		quote.Trend = "rising"
	case quote.ChangePercent < -stableTrendBand:
		quote.Trend = "falling"
	}

	series := make(stats.Series, len(history))
	for i, p := range history {
		series[i] = stats.Coordinate{X: float64(i), Y: p.ModalPrice}
	}
	if fitted, err := stats.LinearRegression(series); err == nil && len(fitted) >= 2 {
		slope := (fitted[len(fitted)-1].Y - fitted[0].Y) / float64(len(fitted)-1)
		projected := last + slope*7
		if projected > 0 {
			quote.Projected7d = math.Round(projected*100) / 100
		}
	}

	// More history means more confidence, capped well short of certainty.
	quote.Confidence = len(history) * 5
	if quote.Confidence > 90 {
		quote.Confidence = 90
	}
	if quote.Confidence < 30 {
		quote.Confidence = 30
	}

	return quote
}

// SyncPrices pulls the full upstream dataset page by page and upserts it.
// Transient page failures retry with exponential backoff; a page that keeps
// failing aborts the run.
func (s *MarketService) SyncPrices(ctx context.Context) (int, error) {
	timer := time.Now()
	defer func() {
		s.metrics.PriceSyncDuration.Observe(time.Since(timer).Seconds())
	}()

	s.logger.Info(ctx, "[PRICE_SYNC_START] Starting mandi price sync", logging.Fields{
		"page_size": priceSyncPageSize,
	})

	total := 0
	offset := 0
	for {
		var page []*models.MarketPrice

		fetch := func() error {
			var err error
			page, err = s.client.FetchPrices(ctx, priceSyncPageSize, offset)
			return err
		}
		policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
		if err := backoff.Retry(fetch, policy); err != nil {
			s.metrics.RecordPriceSyncError("page_failed")
			return total, fmt.Errorf("price sync aborted at offset %d: %w", offset, err)
		}

		if len(page) > 0 {
			if err := s.repo.UpsertPricesBatch(ctx, page); err != nil {
				s.metrics.RecordPriceSyncError("upsert_failed")
				return total, fmt.Errorf("failed to store price batch: %w", err)
			}
			total += len(page)
		}

		if len(page) < priceSyncPageSize {
			break
		}
		offset += priceSyncPageSize
	}

	s.logger.Info(ctx, "[PRICE_SYNC_COMPLETE] Mandi price sync completed", logging.Fields{
		"records":          total,
		"duration_seconds": time.Since(timer).Seconds(),
	})

	return total, nil
}
