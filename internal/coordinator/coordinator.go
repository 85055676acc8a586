// Package coordinator drains a set of targets through a fixed-size worker
// pool. Every input target reaches exactly one terminal state; the run
// returns only when all dispatched work is finished.
package coordinator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/hazyhaar/pricewatch/record"
)

// Scraper is the per-target worker dependency.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*record.PriceRecord, *record.FailureReport)
}

// Config configures a run.
type Config struct {
	// MaxConcurrency is the ceiling of in-flight scrapes. Default: 3.
	MaxConcurrency int

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxConcurrency <= 0 {
		c.MaxConcurrency = 3
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Coordinator fans targets out to scrape workers with bounded concurrency.
type Coordinator struct {
	scraper Scraper
	cfg     Config
}

// New creates a Coordinator.
func New(scraper Scraper, cfg Config) *Coordinator {
	cfg.defaults()
	return &Coordinator{scraper: scraper, cfg: cfg}
}

// Run scrapes all targets and returns the complete partition of successes
// and failures. Guarantees:
//
//   - each distinct target is attempted at most once per run;
//   - at most MaxConcurrency scrapes are in flight at any instant;
//   - partial failure never aborts the run — failed targets become
//     FailureReports, and len(records)+len(failures) equals the number of
//     distinct targets;
//   - cancellation stops dispatching new targets, lets in-flight attempts
//     finish, and accounts for undispatched targets as failures, so no
//     target is ever silently dropped.
//
// Aggregation is order-independent; completion order between targets is
// not guaranteed.
func (c *Coordinator) Run(ctx context.Context, targets []string) ([]record.PriceRecord, []record.FailureReport) {
	log := c.cfg.Logger
	start := time.Now()

	p := pool.New().WithMaxGoroutines(c.cfg.MaxConcurrency)

	var mu sync.Mutex
	var records []record.PriceRecord
	var failures []record.FailureReport

	seen := make(map[string]struct{}, len(targets))

	for _, target := range targets {
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}

		// Cancellation gate: stop dispatching, account for the rest.
		if ctx.Err() != nil {
			mu.Lock()
			failures = append(failures, record.FailureReport{
				URL:        target,
				LastReason: "cancelled before dispatch",
				FailedAt:   time.Now().UTC(),
			})
			mu.Unlock()
			continue
		}

		target := target
		p.Go(func() {
			if ctx.Err() != nil {
				mu.Lock()
				failures = append(failures, record.FailureReport{
					URL:        target,
					LastReason: "cancelled before dispatch",
					FailedAt:   time.Now().UTC(),
				})
				mu.Unlock()
				return
			}

			rec, fail := c.scraper.Scrape(ctx, target)

			mu.Lock()
			if rec != nil {
				records = append(records, *rec)
			} else if fail != nil {
				failures = append(failures, *fail)
			}
			mu.Unlock()
		})
	}

	p.Wait()

	log.Info("coordinator: run complete",
		"targets", len(seen),
		"records", len(records),
		"failures", len(failures),
		"elapsed", time.Since(start))

	return records, failures
}
