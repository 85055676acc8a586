package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/url"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/pricewatch/internal/browser"
)

// Config configures the page fetcher.
type Config struct {
	// Timeout is the per-fetch deadline covering navigation and render wait.
	Timeout time.Duration

	// NavJitter is the upper bound of the randomized pre-navigation delay.
	// Zero disables the delay.
	NavJitter time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// PageFetcher fetches product pages through the shared browser. It borrows
// one fresh stealth tab per call; the Manager owns the Chrome process and
// relaunches it if it dies between calls.
type PageFetcher struct {
	mgr        *browser.Manager
	identities *browser.IdentityPool
	cfg        Config
}

// New creates a PageFetcher on top of a browser Manager.
func New(mgr *browser.Manager, identities *browser.IdentityPool, cfg Config) *PageFetcher {
	cfg.defaults()
	if identities == nil {
		identities = browser.NewIdentityPool(nil)
	}
	return &PageFetcher{mgr: mgr, identities: identities, cfg: cfg}
}

// Fetch navigates to the URL and returns rendered content or a classified
// failure. A dead browser session surfaces as Retryable, never a crash.
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) Outcome {
	if reason, ok := validateTarget(rawURL); !ok {
		return Fatal(reason)
	}

	if _, err := f.mgr.EnsureAlive(ctx); err != nil {
		return Retryable(fmt.Sprintf("browser unavailable: %v", err), 0)
	}

	// Small randomized delay before navigation; uniform timing between
	// requests is a bot signal.
	if f.cfg.NavJitter > 0 {
		jitter := time.Duration(rand.Int63n(int64(f.cfg.NavJitter)))
		select {
		case <-time.After(jitter):
		case <-ctx.Done():
			return Retryable("cancelled before navigation", 0)
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	identity := f.identities.Pick()
	tab, err := browser.NewTab(navCtx, f.mgr, identity)
	if err != nil {
		return Retryable(fmt.Sprintf("open tab: %v", err), 0)
	}
	defer tab.Close()

	// Capture the HTTP status of the document response while navigating.
	status := 0
	waitResp := tab.Page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type == proto.NetworkResourceTypeDocument {
			status = int(e.Response.Status)
			return true
		}
		return false
	})

	if err := tab.Page.Navigate(rawURL); err != nil {
		return classifyNavError(err)
	}
	waitResp()

	// Wait for render; a timeout here still leaves partially rendered
	// content worth an extraction attempt.
	if err := tab.Page.WaitLoad(); err != nil {
		f.cfg.Logger.Warn("fetch: wait load", "url", rawURL, "error", err)
	}

	html, err := tab.HTML(navCtx)
	if err != nil {
		return Retryable(fmt.Sprintf("read DOM: %v", err), status)
	}

	switch {
	case status == 404 || status == 410:
		return Fatal(fmt.Sprintf("resource gone (HTTP %d)", status))
	case status == 403 || status == 429:
		return Retryable(fmt.Sprintf("blocked (HTTP %d)", status), status)
	case status >= 500:
		return Retryable(fmt.Sprintf("server error (HTTP %d)", status), status)
	}

	if sig, blocked := BlockSignature(html); blocked {
		return Retryable("blocked: "+sig, status)
	}

	f.cfg.Logger.Debug("fetch: rendered",
		"url", rawURL, "status", status, "size", len(html), "identity", identity)

	return Success(html, status)
}

// validateTarget rejects URLs the browser should never be pointed at.
func validateTarget(rawURL string) (reason string, ok bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Sprintf("malformed URL: %v", err), false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Sprintf("malformed URL: unsupported scheme %q", parsed.Scheme), false
	}
	if parsed.Host == "" {
		return "malformed URL: missing host", false
	}
	return "", true
}

// classifyNavError maps navigation failures onto the retry taxonomy.
// Everything at this layer is transient by assumption: timeouts, DNS
// hiccups, and connection resets all deserve another attempt.
func classifyNavError(err error) Outcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return Retryable("navigation timeout", 0)
	}
	if errors.Is(err, context.Canceled) {
		return Retryable("cancelled during navigation", 0)
	}
	return Retryable(fmt.Sprintf("navigation: %v", err), 0)
}
