// Package sink delivers scraped price records and failure reports to
// output backends. The core emits; durability is the backend's problem.
package sink

import (
	"context"

	"github.com/hazyhaar/pricewatch/record"
)

// Sink is the output interface for one run's results.
type Sink interface {
	// SendRecord delivers one price observation.
	SendRecord(ctx context.Context, rec record.PriceRecord) error

	// SendFailure delivers one failure report. Backends that only care
	// about prices may ignore it.
	SendFailure(ctx context.Context, fail record.FailureReport) error

	// Close flushes and releases resources.
	Close() error
}
