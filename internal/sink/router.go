package sink

import (
	"context"
	"log/slog"

	"github.com/hazyhaar/pricewatch/record"
)

// Router fans records out to all configured sinks. One sink error does
// not block the others — errors are logged and the first encountered is
// returned, but a failing sink never fails the run.
type Router struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewRouter creates a fan-out router delivering to all sinks.
func NewRouter(logger *slog.Logger, sinks ...Sink) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{sinks: sinks, logger: logger}
}

func (r *Router) SendRecord(ctx context.Context, rec record.PriceRecord) error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.SendRecord(ctx, rec); err != nil {
			r.logger.Warn("sink: send record failed", "url", rec.SourceURL, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *Router) SendFailure(ctx context.Context, fail record.FailureReport) error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.SendFailure(ctx, fail); err != nil {
			r.logger.Warn("sink: send failure failed", "url", fail.URL, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (r *Router) Close() error {
	var firstErr error
	for _, s := range r.sinks {
		if err := s.Close(); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
