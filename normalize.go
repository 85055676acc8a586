package pricewatch

import (
	"net/url"
	"strings"
)

// NormalizeTargetURL normalizes a product URL into the canonical key used
// for target dedup. Query parameters (tracking cruft) and fragments are
// removed, scheme and host are lowercased, duplicate path slashes are
// collapsed, and the trailing slash is stripped (except root).
//
// The function is total: input that cannot be parsed as a URL is returned
// unchanged and treated as an opaque key, so ingestion degrades to
// string-identity dedup instead of failing.
func NormalizeTargetURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)

	// Tracking parameters and anchors never identify a different product.
	parsed.RawQuery = ""
	parsed.Fragment = ""
	parsed.RawFragment = ""

	// Collapse duplicate slashes, then strip the trailing one.
	path := parsed.Path
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	path = strings.TrimRight(path, "/")
	parsed.Path = path
	parsed.RawPath = ""

	return parsed.String()
}
