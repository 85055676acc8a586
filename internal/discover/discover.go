// Package discover turns a search keyword into candidate product URLs by
// rendering the listing page and walking its result cards. It feeds the
// target store; scraping proper never depends on it.
package discover

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/hazyhaar/pricewatch/internal/fetch"
)

// Fetcher is the page acquisition dependency, shared with the scraper so
// discovery rides the same browser and anti-detection setup.
type Fetcher interface {
	Fetch(ctx context.Context, url string) fetch.Outcome
}

// Config configures a search.
type Config struct {
	// SearchURL is a template with one %s verb for the hyphenated keyword.
	SearchURL string

	// Limit caps the number of product URLs returned.
	Limit int

	// CardSelectors locate result cards; the listing renders either a
	// grid or a list layout, so more than one selector is tried.
	CardSelectors []string

	// LinkPatterns must match an href for it to count as a product link.
	LinkPatterns []string

	// ExcludePatterns reject hrefs (sponsored/ad redirects).
	ExcludePatterns []string

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.SearchURL == "" {
		c.SearchURL = "https://listado.mercadolibre.com.ar/%s"
	}
	if c.Limit <= 0 {
		c.Limit = 5
	}
	if len(c.CardSelectors) == 0 {
		c.CardSelectors = []string{
			"li.ui-search-layout__item",
			"div.ui-search-result__wrapper",
		}
	}
	if len(c.LinkPatterns) == 0 {
		c.LinkPatterns = []string{"/p/", "articulo.mercadolibre"}
	}
	if len(c.ExcludePatterns) == 0 {
		c.ExcludePatterns = []string{"click1"}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Discoverer searches a keyword and extracts product links.
type Discoverer struct {
	fetcher Fetcher
	cfg     Config
}

// New creates a Discoverer.
func New(fetcher Fetcher, cfg Config) *Discoverer {
	cfg.defaults()
	return &Discoverer{fetcher: fetcher, cfg: cfg}
}

// Search renders the listing page for the keyword and returns up to Limit
// distinct product URLs, tracking parameters already stripped.
func (d *Discoverer) Search(ctx context.Context, keyword string) ([]string, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, fmt.Errorf("discover: empty keyword")
	}

	query := strings.ReplaceAll(keyword, " ", "-")
	listingURL := fmt.Sprintf(d.cfg.SearchURL, url.PathEscape(query))

	out := d.fetcher.Fetch(ctx, listingURL)
	if out.Class != fetch.ClassSuccess {
		return nil, fmt.Errorf("discover: fetch listing: %s", out.Reason)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out.HTML))
	if err != nil {
		return nil, fmt.Errorf("discover: parse listing: %w", err)
	}

	links := d.extractLinks(doc)
	d.cfg.Logger.Info("discover: search complete",
		"keyword", keyword, "found", len(links))
	return links, nil
}

// extractLinks walks result cards and picks the first product link out of
// each, skipping ad redirects and duplicates.
func (d *Discoverer) extractLinks(doc *goquery.Document) []string {
	var cards *goquery.Selection
	for _, sel := range d.cfg.CardSelectors {
		cards = doc.Find(sel)
		if cards.Length() > 0 {
			break
		}
	}
	if cards == nil || cards.Length() == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string

	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		card.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, _ := a.Attr("href")
			if !d.isProductLink(href) {
				return true
			}

			// Drop tracking cruft before dedup.
			clean := strings.SplitN(href, "?", 2)[0]
			clean = strings.SplitN(clean, "#", 2)[0]

			if _, dup := seen[clean]; dup {
				return false
			}
			seen[clean] = struct{}{}
			links = append(links, clean)
			return false // one link per card
		})
		return len(links) < d.cfg.Limit
	})

	return links
}

func (d *Discoverer) isProductLink(href string) bool {
	if href == "" {
		return false
	}
	for _, ex := range d.cfg.ExcludePatterns {
		if strings.Contains(href, ex) {
			return false
		}
	}
	for _, pat := range d.cfg.LinkPatterns {
		if strings.Contains(href, pat) {
			return true
		}
	}
	return false
}
