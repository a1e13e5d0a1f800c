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

// MarketRepository provides data access for mandi price records
type MarketRepository interface {
	UpsertPricesBatch(ctx context.Context, prices []*models.MarketPrice) error
	GetPrices(ctx context.Context, filter PriceFilter) ([]*models.MarketPrice, int, error)
	GetLatestPrice(ctx context.Context, commodity string) (*models.MarketPrice, error)
	GetPriceHistory(ctx context.Context, commodity string, since time.Time) ([]*models.MarketPrice, error)
	ListCommodities(ctx context.Context) ([]string, error)
}

// PriceFilter defines filters for querying market prices
type PriceFilter struct {
	Commodity *string
	State     *string
	District  *string
	Limit     int
	Offset    int
}

type marketRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewMarketRepository creates a new market repository
func NewMarketRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) MarketRepository {
	return &marketRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// UpsertPricesBatch writes one sync batch in a single transaction. Re-synced
// records overwrite the previous quote for the same commodity, market and
// arrival date.
func (r *marketRepository) UpsertPricesBatch(ctx context.Context, prices []*models.MarketPrice) error {
	if len(prices) == 0 {
		return nil
	}

	timer := time.Now()
	defer func() {
		duration := time.Since(timer)
		r.logger.Debug(ctx, "[REPO_PRICE_BATCH] Price batch upserted", logging.Fields{
			"count":       len(prices),
			"duration_ms": duration.Milliseconds(),
		})
	}()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO market_prices (
			commodity, market, state, district,
			min_price, max_price, modal_price, arrival_date, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (commodity, market, arrival_date) DO UPDATE SET
			min_price = EXCLUDED.min_price,
			max_price = EXCLUDED.max_price,
			modal_price = EXCLUDED.modal_price,
			state = EXCLUDED.state,
			district = EXCLUDED.district
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, price := range prices {
		_, err := stmt.ExecContext(ctx,
			price.Commodity,
			price.Market,
			price.State,
			price.District,
			price.MinPrice,
			price.MaxPrice,
			price.ModalPrice,
			price.ArrivalDate,
			price.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert price: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.metrics.PriceSyncRecordsTotal.Add(float64(len(prices)))

	return nil
}

// GetPrices retrieves price records with filtering and pagination
func (r *marketRepository) GetPrices(ctx context.Context, filter PriceFilter) ([]*models.MarketPrice, int, error) {
	query := `
		SELECT id, commodity, market, state, district,
		       min_price, max_price, modal_price, arrival_date, created_at
		FROM market_prices
		WHERE 1=1
	`
	args := []interface{}{}
	argNum := 1

	if filter.Commodity != nil {
		query += fmt.Sprintf(" AND commodity = $%d", argNum)
		args = append(args, *filter.Commodity)
		argNum++
	}

	if filter.State != nil {
		query += fmt.Sprintf(" AND state = $%d", argNum)
		args = append(args, *filter.State)
		argNum++
	}

	if filter.District != nil {
		query += fmt.Sprintf(" AND district = $%d", argNum)
		args = append(args, *filter.District)
		argNum++
	}

	// Get total count
	countQuery := "SELECT COUNT(*) FROM (" + query + ") AS count_query"
	var totalCount int
	err := r.db.GetContext(ctx, "count_prices", &totalCount, countQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count prices: %w", err)
	}

	// Add ordering and pagination
	query += " ORDER BY arrival_date DESC, commodity"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, filter.Limit, filter.Offset)

	var prices []*models.MarketPrice
	err = r.db.SelectContext(ctx, "get_prices", &prices, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get prices: %w", err)
	}

	return prices, totalCount, nil
}

// GetLatestPrice retrieves the most recent quote for a commodity
func (r *marketRepository) GetLatestPrice(ctx context.Context, commodity string) (*models.MarketPrice, error) {
	query := `
		SELECT id, commodity, market, state, district,
		       min_price, max_price, modal_price, arrival_date, created_at
		FROM market_prices
		WHERE commodity = $1
		ORDER BY arrival_date DESC
		LIMIT 1
	`

	var price models.MarketPrice
	err := r.db.GetContext(ctx, "get_latest_price", &price, query, commodity)

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "market_price", ID: commodity}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get latest price: %w", err)
	}

	return &price, nil
}

// GetPriceHistory retrieves a commodity's quotes since the given date in
// chronological order
func (r *marketRepository) GetPriceHistory(ctx context.Context, commodity string, since time.Time) ([]*models.MarketPrice, error) {
	query := `
		SELECT id, commodity, market, state, district,
		       min_price, max_price, modal_price, arrival_date, created_at
		FROM market_prices
		WHERE commodity = $1 AND arrival_date >= $2
		ORDER BY arrival_date
	`

	var prices []*models.MarketPrice
	err := r.db.SelectContext(ctx, "get_price_history", &prices, query, commodity, since)

	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}

	return prices, nil
}

// ListCommodities retrieves the distinct commodities present in the price
// table
func (r *marketRepository) ListCommodities(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT commodity FROM market_prices ORDER BY commodity`

	var commodities []string
	err := r.db.SelectContext(ctx, "list_commodities", &commodities, query)

	if err != nil {
		return nil, fmt.Errorf("failed to list commodities: %w", err)
	}

	return commodities, nil
}
