package fetch

import (
	"context"
	"errors"
	"testing"
)

func TestValidateTarget(t *testing.T) {
	// WHAT: Only http/https URLs with a host pass; everything else is
	// fatal before the browser is touched.
	// WHY: Pointing Chrome at file:// or javascript: URLs is a safety
	// hole, not just a wasted attempt.
	valid := []string{
		"https://example.com/p/1",
		"http://example.com",
		"https://articulo.mercadolibre.com.ar/MLA-123",
	}
	for _, u := range valid {
		if reason, ok := validateTarget(u); !ok {
			t.Errorf("validateTarget(%q) rejected: %s", u, reason)
		}
	}

	invalid := []string{
		"",
		"not a url",
		"ftp://example.com/file",
		"file:///etc/passwd",
		"javascript:alert(1)",
		"https://",
		"//example.com/p/1",
	}
	for _, u := range invalid {
		if _, ok := validateTarget(u); ok {
			t.Errorf("validateTarget(%q) accepted", u)
		}
	}
}

func TestClassifyNavError(t *testing.T) {
	// WHAT: Navigation failures are always retryable; the reason string
	// distinguishes timeout from cancellation.
	cases := []struct {
		name   string
		err    error
		reason string
	}{
		{"timeout", context.DeadlineExceeded, "navigation timeout"},
		{"cancelled", context.Canceled, "cancelled during navigation"},
		{"other", errors.New("net::ERR_CONNECTION_RESET"), "navigation: net::ERR_CONNECTION_RESET"},
	}
	for _, tc := range cases {
		out := classifyNavError(tc.err)
		if out.Class != ClassRetryable {
			t.Errorf("%s: class = %v, want retryable", tc.name, out.Class)
		}
		if out.Reason != tc.reason {
			t.Errorf("%s: reason = %q, want %q", tc.name, out.Reason, tc.reason)
		}
	}
}
