package browser

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Tab wraps a Rod page prepared for one fetch: stealth scripts injected,
// identity string overridden, viewport spoofed, resource blocking applied.
// Navigation is the caller's job — a Tab is a borrowed, single-use surface.
type Tab struct {
	Page     *rod.Page
	Identity string
}

// NewTab creates a fresh stealth tab on the managed browser. The stealth
// page suppresses the automation signals page scripts probe for
// (navigator.webdriver and friends); the identity string is set per tab
// so concurrent fetches never share one.
func NewTab(ctx context.Context, mgr *Manager, identity string) (*Tab, error) {
	b := mgr.Browser()
	if b == nil {
		return nil, ErrNoBrowser
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}
	page = page.Context(ctx)

	if identity != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: identity,
		}); err != nil {
			page.Close()
			return nil, fmt.Errorf("browser: set identity: %w", err)
		}
	}

	// A headless-default viewport is itself a detection signal.
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1280,
		Height:            800,
		DeviceScaleFactor: 1,
	}); err != nil {
		mgr.cfg.Logger.Warn("browser: set viewport failed", "error", err)
	}

	if len(mgr.cfg.ResourceBlocking) > 0 {
		if err := applyResourceBlocking(page, mgr.cfg.ResourceBlocking); err != nil {
			mgr.cfg.Logger.Warn("browser: resource blocking failed", "error", err)
		}
	}

	return &Tab{Page: page, Identity: identity}, nil
}

// HTML serialises the rendered document as outer HTML.
func (t *Tab) HTML(ctx context.Context) (string, error) {
	res, err := t.Page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("browser: get DOM: %w", err)
	}
	return res.Value.Str(), nil
}

// Close closes the tab. Cookies and identity die with it.
func (t *Tab) Close() error {
	if t.Page != nil {
		return t.Page.Close()
	}
	return nil
}
