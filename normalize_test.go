package pricewatch

import "testing"

func TestNormalizeTargetURL_StripQueryAndFragment(t *testing.T) {
	// WHAT: Query parameters and fragments are removed.
	// WHY: Tracking cruft must not make two copies of the same product.
	got := NormalizeTargetURL("https://example.com/p/123?utm_source=mail&ref=home#reviews")
	if got != "https://example.com/p/123" {
		t.Errorf("got %q, want %q", got, "https://example.com/p/123")
	}
}

func TestNormalizeTargetURL_QueryOnlyDifference(t *testing.T) {
	// WHAT: URLs differing only in query string and fragment normalize identically.
	// WHY: They are the same Target by contract.
	a := NormalizeTargetURL("https://example.com/p/123?utm=1")
	b := NormalizeTargetURL("https://example.com/p/123#section")
	if a != b {
		t.Errorf("normalized forms differ: %q vs %q", a, b)
	}
}

func TestNormalizeTargetURL_LowercaseSchemeHost(t *testing.T) {
	// WHAT: Scheme and host are lowercased; path case is preserved.
	// WHY: DNS is case-insensitive, paths are not.
	got := NormalizeTargetURL("HTTPS://Example.COM/p/MLA-123")
	if got != "https://example.com/p/MLA-123" {
		t.Errorf("got %q, want %q", got, "https://example.com/p/MLA-123")
	}
}

func TestNormalizeTargetURL_CollapseDuplicateSlashes(t *testing.T) {
	// WHAT: Duplicate path slashes collapse to one.
	// WHY: //p///123 and /p/123 address the same resource.
	got := NormalizeTargetURL("https://example.com//p///123")
	if got != "https://example.com/p/123" {
		t.Errorf("got %q, want %q", got, "https://example.com/p/123")
	}
}

func TestNormalizeTargetURL_TrailingSlash(t *testing.T) {
	// WHAT: Trailing slashes are stripped.
	// WHY: /p/123/ and /p/123 are the same product page.
	got := NormalizeTargetURL("https://example.com/p/123/")
	if got != "https://example.com/p/123" {
		t.Errorf("got %q, want %q", got, "https://example.com/p/123")
	}
}

func TestNormalizeTargetURL_Idempotent(t *testing.T) {
	// WHAT: Re-normalizing an already-normalized URL is a no-op.
	// WHY: Keys stored once must match keys computed later.
	cases := []string{
		"https://example.com/p/123?x=1#y",
		"HTTP://HOST//a//b/",
		"not a url at all",
		"",
	}
	for _, raw := range cases {
		once := NormalizeTargetURL(raw)
		twice := NormalizeTargetURL(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q != %q", raw, once, twice)
		}
	}
}

func TestNormalizeTargetURL_MalformedPassthrough(t *testing.T) {
	// WHAT: Input that cannot be parsed as a URL is returned unchanged.
	// WHY: Normalization is total; malformed input degrades to an opaque
	// key instead of blocking ingestion.
	raw := "http://exa mple.com/%zz"
	if got := NormalizeTargetURL(raw); got != raw {
		t.Errorf("malformed input changed: got %q, want %q", got, raw)
	}
}
