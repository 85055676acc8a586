// Package extract locates field values inside rendered page content using
// ordered lists of extraction strategies. Strategy order is configuration,
// not control flow: markup drift is repaired by editing selector lists.
package extract

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Field names recognised by the extractor.
const (
	FieldPrice    = "price"
	FieldName     = "name"
	FieldCurrency = "currency"
)

// Result is the outcome of one extraction attempt. StrategyIndex reports
// which selector in the ordered list produced the value; -1 when none did.
type Result struct {
	Field         string
	Value         string
	StrategyIndex int
	Found         bool
}

// notFound is the absent-value Result. Absence is always representable;
// it never propagates as an error.
func notFound(field string) Result {
	return Result{Field: field, StrategyIndex: -1}
}

// Config holds the ordered selector lists per field, most specific to the
// known page layout first, generic fallbacks last.
type Config struct {
	Price    []string
	Name     []string
	Currency []string

	Logger *slog.Logger
}

// Extractor applies first-match-wins strategy evaluation to rendered HTML.
type Extractor struct {
	strategies map[string][]string
	logger     *slog.Logger
}

// New creates an Extractor from selector configuration.
func New(cfg Config) *Extractor {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Extractor{
		strategies: map[string][]string{
			FieldPrice:    cfg.Price,
			FieldName:     cfg.Name,
			FieldCurrency: cfg.Currency,
		},
		logger: cfg.Logger,
	}
}

// Extract tries the field's strategies in order and returns the first
// non-empty, well-formed match. For the price field a candidate must also
// survive numeric parsing; a strategy yielding garbage falls through to
// the next one.
func (e *Extractor) Extract(html, field string) Result {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.logger.Debug("extract: parse document", "field", field, "error", err)
		return notFound(field)
	}
	return e.extractDoc(doc, field)
}

// ExtractAll parses the document once and extracts every configured field.
// Keys with no match are absent from the result map.
func (e *Extractor) ExtractAll(html string) map[string]Result {
	out := make(map[string]Result)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return out
	}
	for field := range e.strategies {
		if res := e.extractDoc(doc, field); res.Found {
			out[field] = res
		}
	}
	return out
}

func (e *Extractor) extractDoc(doc *goquery.Document, field string) Result {
	for i, sel := range e.strategies[field] {
		value := strings.TrimSpace(doc.Find(sel).First().Text())
		if value == "" {
			continue
		}
		if field == FieldPrice {
			if _, ok := ParsePrice(value); !ok {
				e.logger.Debug("extract: unparseable price candidate",
					"selector", sel, "value", value)
				continue
			}
		}
		return Result{Field: field, Value: value, StrategyIndex: i, Found: true}
	}
	return notFound(field)
}
