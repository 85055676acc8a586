// Package scrape runs the per-target retry state machine: fetch, extract,
// back off, repeat — until a price is captured or the attempt budget is
// spent. Every target ends in exactly one terminal state; nothing raises.
package scrape

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"

	"github.com/hazyhaar/pricewatch/internal/extract"
	"github.com/hazyhaar/pricewatch/internal/fetch"
	"github.com/hazyhaar/pricewatch/record"
)

// Fetcher is the page acquisition dependency. The production
// implementation drives the shared browser; tests substitute fakes.
type Fetcher interface {
	Fetch(ctx context.Context, url string) fetch.Outcome
}

// Config configures the retry state machine.
type Config struct {
	// MaxRetries is the total attempt budget per target (attempts, not
	// re-attempts: a budget of 3 means at most 3 fetches).
	MaxRetries int

	// BaseBackoff is the delay before the second attempt; it doubles per
	// attempt up to MaxBackoff.
	BaseBackoff time.Duration

	// MaxBackoff caps the exponential growth.
	MaxBackoff time.Duration

	// DefaultCurrency is used when the page yields no currency marker.
	DefaultCurrency string

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = 2 * time.Second
	}
	if c.MaxBackoff <= 0 {
		c.MaxBackoff = 60 * time.Second
	}
	if c.DefaultCurrency == "" {
		c.DefaultCurrency = "ARS"
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Scraper is the unit of idempotent work: one target in, one terminal
// outcome out.
type Scraper struct {
	fetcher   Fetcher
	extractor *extract.Extractor
	cfg       Config

	// sleep is the backoff suspension point, injectable so tests can
	// observe the delay sequence without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a Scraper.
func New(fetcher Fetcher, extractor *extract.Extractor, cfg Config) *Scraper {
	cfg.defaults()
	return &Scraper{
		fetcher:   fetcher,
		extractor: extractor,
		cfg:       cfg,
		sleep:     sleepCtx,
	}
}

// Scrape runs the state machine for one target URL. Exactly one of the
// return values is non-nil: a PriceRecord on success, a FailureReport when
// the target is exhausted. Failure is data, never an error to the caller.
func (s *Scraper) Scrape(ctx context.Context, target string) (*record.PriceRecord, *record.FailureReport) {
	log := s.cfg.Logger

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.cfg.BaseBackoff
	bo.Multiplier = 2
	bo.MaxInterval = s.cfg.MaxBackoff
	bo.RandomizationFactor = 0

	lastReason := "no attempts made"

	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		out := s.fetcher.Fetch(ctx, target)

		switch out.Class {
		case fetch.ClassFatal:
			// Retrying a permanently invalid target wastes the budget.
			log.Warn("scrape: fatal", "url", target, "reason", out.Reason)
			return nil, s.failure(target, out.Reason, attempt)

		case fetch.ClassRetryable:
			lastReason = out.Reason
			log.Info("scrape: retryable fetch failure",
				"url", target, "attempt", attempt, "reason", out.Reason)

		case fetch.ClassSuccess:
			if rec, ok := s.buildRecord(target, out.HTML); ok {
				log.Info("scrape: captured",
					"url", target, "price", rec.Price, "attempt", attempt)
				return rec, nil
			}
			// Frequently an incomplete render rather than true absence,
			// so it is retried like a transient failure.
			lastReason = "price not found"
			log.Info("scrape: price not found", "url", target, "attempt", attempt)
		}

		if attempt == s.cfg.MaxRetries {
			break
		}

		delay := bo.NextBackOff()
		if delay == backoff.Stop || delay > s.cfg.MaxBackoff {
			delay = s.cfg.MaxBackoff
		}
		if err := s.sleep(ctx, delay); err != nil {
			return nil, s.failure(target, "cancelled during backoff", attempt)
		}
	}

	return nil, s.failure(target, lastReason, s.cfg.MaxRetries)
}

// buildRecord extracts fields from rendered content. The price field is
// mandatory; name and currency fall back to defaults — a missing secondary
// field never discards a successfully priced observation.
func (s *Scraper) buildRecord(target, html string) (*record.PriceRecord, bool) {
	priceRes := s.extractor.Extract(html, extract.FieldPrice)
	if !priceRes.Found {
		return nil, false
	}
	price, ok := extract.ParsePrice(priceRes.Value)
	if !ok {
		return nil, false
	}

	name := "unknown"
	if res := s.extractor.Extract(html, extract.FieldName); res.Found {
		name = res.Value
	}

	currency := s.cfg.DefaultCurrency
	if res := s.extractor.Extract(html, extract.FieldCurrency); res.Found {
		currency = extract.CurrencyFromSymbol(res.Value, s.cfg.DefaultCurrency)
	}

	return &record.PriceRecord{
		ID:          uuid.NewString(),
		ProductName: name,
		Price:       price,
		Currency:    currency,
		SourceURL:   target,
		CapturedAt:  time.Now().UTC(),
	}, true
}

func (s *Scraper) failure(target, reason string, attempts int) *record.FailureReport {
	return &record.FailureReport{
		URL:        target,
		LastReason: reason,
		Attempts:   attempts,
		FailedAt:   time.Now().UTC(),
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
