package fetch

import "strings"

// blockIndicators are lowercase signatures of anti-bot interstitials.
// Matching any of them classifies the page as blocked rather than failed:
// backoff plus identity rotation frequently gets past them, so they are
// retryable, not fatal.
var blockIndicators = []string{
	"complete the captcha",
	"resolvé el captcha",
	"are you a robot",
	"unusual traffic",
	"access denied",
	"checking your browser",
	"verify you are human",
	"detectamos actividad inusual",
	"demasiadas solicitudes",
	"pardon our interruption",
}

// BlockSignature scans rendered content for a known blocked/challenge
// signature. Returns the matched signature and true when found.
func BlockSignature(html string) (string, bool) {
	if html == "" {
		return "empty page", true
	}

	lower := strings.ToLower(html)
	for _, ind := range blockIndicators {
		if strings.Contains(lower, ind) {
			return ind, true
		}
	}

	// A near-empty document after render is an interstitial shell, not a
	// product page.
	if len(lower) < 512 && !strings.Contains(lower, "<body") {
		return "truncated document", true
	}

	return "", false
}
