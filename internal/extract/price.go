package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice parses a human-formatted price string into a non-negative
// integer, minor-unit-free. It handles both separator locales:
//
//	"1.299"      -> 1299   (dot as thousands separator)
//	"1,299.50"   -> 1299   (comma thousands, dot decimal, truncated)
//	"1.299,50"   -> 1299   (dot thousands, comma decimal, truncated)
//	"$ 1 299"    -> 1299   (space thousands, symbol stripped)
//
// Returns false when no usable number remains after cleaning, or the value
// is negative. Failure here means NotFound upstream, never a crash.
func ParsePrice(raw string) (int64, bool) {
	clean := stripNonNumeric(raw)
	if clean == "" {
		return 0, false
	}

	normalized := normalizeSeparators(clean)
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return 0, false
	}
	if d.IsNegative() {
		return 0, false
	}

	return d.Truncate(0).IntPart(), true
}

// CurrencyFromSymbol maps a scraped currency marker to an ISO code,
// falling back to the configured default for the bare local symbol.
func CurrencyFromSymbol(symbol, fallback string) string {
	switch strings.ToUpper(strings.TrimSpace(symbol)) {
	case "US$", "U$S", "USD":
		return "USD"
	case "R$", "BRL":
		return "BRL"
	case "€", "EUR":
		return "EUR"
	case "":
		return fallback
	default:
		// Already an ISO code, or the local symbol ($): keep ISO codes,
		// map everything else to the default.
		s := strings.ToUpper(strings.TrimSpace(symbol))
		if len(s) == 3 && isLetters(s) {
			return s
		}
		return fallback
	}
}

func isLetters(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// stripNonNumeric drops currency symbols, whitespace, and anything else
// that is not a digit or separator.
func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeSeparators resolves locale ambiguity between thousands and
// decimal separators and returns a string decimal.NewFromString accepts.
//
// Rules: when both separators appear, the rightmost is the decimal mark.
// A lone separator repeated, or followed by exactly three digits, is a
// thousands separator; otherwise it is the decimal mark.
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	var decSep byte
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			decSep = '.'
		} else {
			decSep = ','
		}
	case lastDot >= 0:
		if isThousands(s, '.', lastDot) {
			decSep = 0
		} else {
			decSep = '.'
		}
	case lastComma >= 0:
		if isThousands(s, ',', lastComma) {
			decSep = 0
		} else {
			decSep = ','
		}
	}

	decPos := -1
	if decSep != 0 {
		decPos = strings.LastIndexByte(s, decSep)
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '.', ',':
			if i == decPos {
				b.WriteByte('.')
			}
			// Thousands separators vanish.
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

// isThousands reports whether a lone separator kind groups thousands:
// it occurs more than once, or its last occurrence is followed by exactly
// three digits with at least one digit before it.
func isThousands(s string, sep byte, last int) bool {
	if strings.Count(s, string(sep)) > 1 {
		return true
	}
	return last > 0 && len(s)-last-1 == 3
}
