package models

import (
	"time"
)

// MarketPrice is one commodity quote from a mandi (wholesale market).
// Prices are rupees per quintal; per-kg values are derived on the way out.
type MarketPrice struct {
	ID          int64     `json:"id" db:"id"`
	Commodity   string    `json:"commodity" db:"commodity"`
	Market      string    `json:"market" db:"market"`
	State       string    `json:"state" db:"state"`
	District    string    `json:"district" db:"district"`
	MinPrice    float64   `json:"min_price" db:"min_price"`
	MaxPrice    float64   `json:"max_price" db:"max_price"`
	ModalPrice  float64   `json:"modal_price" db:"modal_price"`
	ArrivalDate time.Time `json:"arrival_date" db:"arrival_date"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PerKg converts a per-quintal price to per-kg (1 quintal = 100 kg).
func PerKg(quintalPrice float64) float64 {
	return quintalPrice / 100
}

// MarketQuote is a MarketPrice enriched with trend fields for the dashboard
type MarketQuote struct {
	MarketPrice
	ModalPriceKg  float64 `json:"modal_price_kg"`
	MinPriceKg    float64 `json:"min_price_kg"`
	MaxPriceKg    float64 `json:"max_price_kg"`
	ChangePercent float64 `json:"change_percent"`
	Trend         string  `json:"trend"`
	Projected7d   float64 `json:"projected_7d"`
	Confidence    int     `json:"confidence"`
}
