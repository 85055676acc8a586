// Package record defines the value types flowing out of a scraping run:
// immutable price observations and per-target failure reports. Both are
// shared between the coordinator, the stores, and the sinks.
package record

import (
	"encoding/json"
	"time"
)

// PriceRecord is one observation of a product's price at a point in time.
// Records are append-only: created exactly once per successful scrape and
// never mutated afterwards.
type PriceRecord struct {
	ID          string    `json:"id"`
	ProductName string    `json:"product_name"`
	Price       int64     `json:"price"` // minor-unit-free, always >= 0
	Currency    string    `json:"currency"`
	SourceURL   string    `json:"source_url"`
	CapturedAt  time.Time `json:"captured_at"`
}

// FailureReport accounts for a target that did not produce a record.
// It is data, not an error: the run itself succeeds regardless.
type FailureReport struct {
	URL        string    `json:"url"`
	LastReason string    `json:"last_reason"`
	Attempts   int       `json:"attempts"`
	FailedAt   time.Time `json:"failed_at"`
}

// MarshalRecord serialises a PriceRecord as a single JSON line.
func MarshalRecord(rec *PriceRecord) ([]byte, error) {
	return json.Marshal(rec)
}

// MarshalFailure serialises a FailureReport as a single JSON line.
func MarshalFailure(f *FailureReport) ([]byte, error) {
	return json.Marshal(f)
}
