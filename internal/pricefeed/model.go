package pricefeed

import "time"

// Metals the feed tracks. Spot sources quote per troy ounce; prices are
// normalised to per gram before storage.
var DefaultMetals = []string{"gold", "silver", "platinum", "palladium"}

// MetalPrice is one stored spot observation.
type MetalPrice struct {
	ID           int64     `json:"id" db:"id"`
	Metal        string    `json:"metal" db:"metal"`
	Currency     string    `json:"currency" db:"currency"`
	PricePerGram float64   `json:"price_per_gram" db:"price_per_gram"`
	RunID        string    `json:"run_id" db:"run_id"`
	FetchedAt    time.Time `json:"fetched_at" db:"fetched_at"`
}
