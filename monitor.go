// Package pricewatch monitors e-commerce product prices. It discovers
// product URLs for a keyword, fetches each page through a shared stealth
// browser, extracts the current price with selector fallback, and appends
// time-stamped observations to an immutable history.
//
// pricewatch observes, it does not analyse. Records and failure reports
// are emitted to sinks (stdout, csv, webhook, sqlite) for downstream
// consumers.
package pricewatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/pricewatch/internal/browser"
	"github.com/hazyhaar/pricewatch/internal/config"
	"github.com/hazyhaar/pricewatch/internal/coordinator"
	"github.com/hazyhaar/pricewatch/internal/discover"
	"github.com/hazyhaar/pricewatch/internal/extract"
	"github.com/hazyhaar/pricewatch/internal/fetch"
	"github.com/hazyhaar/pricewatch/internal/scrape"
	"github.com/hazyhaar/pricewatch/internal/sink"
	"github.com/hazyhaar/pricewatch/internal/store"
	"github.com/hazyhaar/pricewatch/record"
)

// ErrNoTargets is returned by RunOnce when the target store is empty.
var ErrNoTargets = errors.New("pricewatch: no targets to scrape")

// Monitor is the top-level orchestrator. It owns the browser lifecycle,
// the target/history store, and the sink router; workers borrow from it.
// Create one per process.
type Monitor struct {
	cfg    *config.Config
	mgr    *browser.Manager
	st     *store.Store
	sinkR  *sink.Router
	coord  *coordinator.Coordinator
	disc   *discover.Discoverer
	logger *slog.Logger
}

// New creates a Monitor from configuration. Extra sinks are delivered to
// in addition to those configured; the sqlite history store is always one
// of them unless the config names sinks explicitly.
func New(cfg *config.Config, logger *slog.Logger, extra ...sink.Sink) (*Monitor, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.ApplyDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	st, err := store.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("pricewatch: open store: %w", err)
	}

	mgr := browser.NewManager(browser.Config{
		RemoteURL:        cfg.Browser.Remote,
		ResourceBlocking: cfg.Browser.ResourceBlocking,
		Logger:           logger,
	})

	fetcher := fetch.New(mgr, browser.NewIdentityPool(cfg.Browser.IdentityPool), fetch.Config{
		Timeout:   cfg.Fetch.Timeout,
		NavJitter: cfg.Fetch.NavJitter,
		Logger:    logger,
	})

	extractor := extract.New(extract.Config{
		Price:    cfg.Selectors.Price,
		Name:     cfg.Selectors.Name,
		Currency: cfg.Selectors.Currency,
		Logger:   logger,
	})

	scraper := scrape.New(fetcher, extractor, scrape.Config{
		MaxRetries:      cfg.Scrape.MaxRetries,
		BaseBackoff:     cfg.Scrape.BaseBackoff,
		MaxBackoff:      cfg.Scrape.MaxBackoff,
		DefaultCurrency: cfg.Scrape.DefaultCurrency,
		Logger:          logger,
	})

	coord := coordinator.New(scraper, coordinator.Config{
		MaxConcurrency: cfg.Run.MaxConcurrency,
		Logger:         logger,
	})

	disc := discover.New(fetcher, discover.Config{
		SearchURL:       cfg.Discovery.SearchURL,
		Limit:           cfg.Discovery.Limit,
		CardSelectors:   cfg.Discovery.CardSelectors,
		LinkPatterns:    cfg.Discovery.LinkPatterns,
		ExcludePatterns: cfg.Discovery.ExcludePatterns,
		Logger:          logger,
	})

	sinks, err := buildSinks(cfg, st, logger)
	if err != nil {
		st.Close()
		return nil, err
	}
	sinks = append(sinks, extra...)

	return &Monitor{
		cfg:    cfg,
		mgr:    mgr,
		st:     st,
		sinkR:  sink.NewRouter(logger, sinks...),
		coord:  coord,
		disc:   disc,
		logger: logger,
	}, nil
}

// Start launches the browser eagerly. Fetches would also launch it
// lazily; calling Start surfaces environment problems before a run.
func (m *Monitor) Start(ctx context.Context) error {
	if _, err := m.mgr.Start(ctx); err != nil {
		return fmt.Errorf("pricewatch: start browser: %w", err)
	}
	return nil
}

// Stop tears down sinks, the browser, and the store.
func (m *Monitor) Stop() {
	if err := m.sinkR.Close(); err != nil {
		m.logger.Warn("pricewatch: close sinks", "error", err)
	}
	m.mgr.Close()
	if err := m.st.Close(); err != nil {
		m.logger.Warn("pricewatch: close store", "error", err)
	}
}

// AddTarget normalizes and registers one product URL. Returns the
// canonical key and whether it was new.
func (m *Monitor) AddTarget(ctx context.Context, rawURL string) (string, bool, error) {
	key := NormalizeTargetURL(rawURL)
	added, err := m.st.AddTarget(ctx, key)
	return key, added, err
}

// Targets lists the stored targets in insertion order.
func (m *Monitor) Targets(ctx context.Context) ([]string, error) {
	return m.st.ListTargets(ctx)
}

// RemoveTarget deletes one target; its history remains.
func (m *Monitor) RemoveTarget(ctx context.Context, rawURL string) error {
	return m.st.RemoveTarget(ctx, NormalizeTargetURL(rawURL))
}

// Discover searches the keyword and registers every discovered product
// URL, returning the canonical keys that were actually new.
func (m *Monitor) Discover(ctx context.Context, keyword string) ([]string, error) {
	links, err := m.disc.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}

	var added []string
	for _, link := range links {
		key, isNew, err := m.AddTarget(ctx, link)
		if err != nil {
			return added, err
		}
		if isNew {
			added = append(added, key)
		}
	}
	m.logger.Info("pricewatch: discovery stored targets",
		"keyword", keyword, "found", len(links), "new", len(added))
	return added, nil
}

// RunOnce scrapes every stored target and emits the results. The returned
// partitions are complete: every target ends up in exactly one of them.
func (m *Monitor) RunOnce(ctx context.Context) ([]record.PriceRecord, []record.FailureReport, error) {
	targets, err := m.st.ListTargets(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("pricewatch: list targets: %w", err)
	}
	if len(targets) == 0 {
		return nil, nil, ErrNoTargets
	}
	return m.run(ctx, targets)
}

// ScrapeURL runs the full pipeline for a single URL without requiring it
// to be stored first.
func (m *Monitor) ScrapeURL(ctx context.Context, rawURL string) ([]record.PriceRecord, []record.FailureReport, error) {
	return m.run(ctx, []string{NormalizeTargetURL(rawURL)})
}

// History returns stored observations for a product URL, newest first.
func (m *Monitor) History(ctx context.Context, rawURL string, limit int) ([]record.PriceRecord, error) {
	return m.st.History(ctx, NormalizeTargetURL(rawURL), limit)
}

func (m *Monitor) run(ctx context.Context, targets []string) ([]record.PriceRecord, []record.FailureReport, error) {
	records, failures := m.coord.Run(ctx, targets)

	// One record per target per run makes (source_url, captured_at)
	// unique already; the guard keeps the emit contract explicit.
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		key := rec.SourceURL + "|" + rec.CapturedAt.Format(time.RFC3339Nano)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		m.sinkR.SendRecord(ctx, rec)
	}
	for _, fail := range failures {
		m.sinkR.SendFailure(ctx, fail)
	}

	return records, failures, nil
}

// buildSinks constructs the configured output backends. An empty sink
// list defaults to the sqlite history store.
func buildSinks(cfg *config.Config, st *store.Store, logger *slog.Logger) ([]sink.Sink, error) {
	if len(cfg.Sinks) == 0 {
		return []sink.Sink{sink.NewStore(st)}, nil
	}

	var sinks []sink.Sink
	for _, sc := range cfg.Sinks {
		switch sc.Type {
		case "stdout":
			sinks = append(sinks, sink.NewStdout(nil))
		case "csv":
			s, err := sink.NewCSV(sc.Path)
			if err != nil {
				return nil, fmt.Errorf("pricewatch: csv sink: %w", err)
			}
			sinks = append(sinks, s)
		case "webhook":
			sinks = append(sinks, sink.NewWebhook(sc.URL, sink.WithWebhookLogger(logger)))
		case "store":
			sinks = append(sinks, sink.NewStore(st))
		default:
			return nil, fmt.Errorf("pricewatch: unknown sink type %q", sc.Type)
		}
	}
	return sinks, nil
}
