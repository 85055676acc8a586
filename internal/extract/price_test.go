package extract

import "testing"

func TestParsePrice_Locales(t *testing.T) {
	// WHAT: Both separator locales parse to the same integer amount.
	// WHY: The same marketplace renders "1.299" in one country and
	// "1,299" in another; history rows must be comparable.
	cases := []struct {
		raw  string
		want int64
	}{
		{"1299", 1299},
		{"1.299", 1299},       // dot thousands
		{"1,299", 1299},       // comma thousands
		{"1,299.50", 1299},    // comma thousands, dot decimal
		{"1.299,50", 1299},    // dot thousands, comma decimal
		{"12.345.678", 12345678},
		{"$ 1 299", 1299},     // symbol and space stripped
		{"US$1,299.99", 1299},
		{"2,5", 2},            // lone comma with two digits is a decimal mark
		{"299", 299},
		{"0", 0},
	}
	for _, tc := range cases {
		got, ok := ParsePrice(tc.raw)
		if !ok {
			t.Errorf("ParsePrice(%q): unexpectedly failed", tc.raw)
			continue
		}
		if got != tc.want {
			t.Errorf("ParsePrice(%q) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestParsePrice_Rejects(t *testing.T) {
	// WHAT: Garbage, emptiness, and negative values fail cleanly.
	// WHY: A bad candidate must fall through to the next strategy, not
	// poison the history with a zero or a refund.
	for _, raw := range []string{"", "precio", "N/A", "-1299", "--", "..."} {
		if got, ok := ParsePrice(raw); ok {
			t.Errorf("ParsePrice(%q) = %d, want failure", raw, got)
		}
	}
}

func TestCurrencyFromSymbol(t *testing.T) {
	cases := []struct {
		symbol, fallback, want string
	}{
		{"US$", "ARS", "USD"},
		{"U$S", "ARS", "USD"},
		{"R$", "ARS", "BRL"},
		{"€", "ARS", "EUR"},
		{"usd", "ARS", "USD"},
		{"BRL", "ARS", "BRL"},
		{"$", "ARS", "ARS"},   // bare local symbol maps to the default
		{"", "ARS", "ARS"},
		{"?!", "ARS", "ARS"},
	}
	for _, tc := range cases {
		if got := CurrencyFromSymbol(tc.symbol, tc.fallback); got != tc.want {
			t.Errorf("CurrencyFromSymbol(%q, %q) = %q, want %q",
				tc.symbol, tc.fallback, got, tc.want)
		}
	}
}
