package sink

import (
	"context"

	"github.com/hazyhaar/pricewatch/internal/store"
	"github.com/hazyhaar/pricewatch/record"
)

// StoreSink appends records to the sqlite price history. Failures are not
// persisted — they are operator telemetry, not audit data.
type StoreSink struct {
	st *store.Store
}

// NewStore creates a sink over an open Store. The sink does not own the
// store and Close is a no-op; the monitor closes the store at run end.
func NewStore(st *store.Store) *StoreSink {
	return &StoreSink{st: st}
}

func (s *StoreSink) SendRecord(ctx context.Context, rec record.PriceRecord) error {
	return s.st.AppendRecord(ctx, &rec)
}

func (s *StoreSink) SendFailure(_ context.Context, _ record.FailureReport) error {
	return nil
}

func (s *StoreSink) Close() error { return nil }
