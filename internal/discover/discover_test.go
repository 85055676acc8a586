package discover

import (
	"context"
	"strings"
	"testing"

	"github.com/hazyhaar/pricewatch/internal/fetch"
)

// listingFetcher serves a canned listing page and records the URL asked for.
type listingFetcher struct {
	html       string
	outcome    *fetch.Outcome
	requestURL string
}

func (f *listingFetcher) Fetch(ctx context.Context, url string) fetch.Outcome {
	f.requestURL = url
	if f.outcome != nil {
		return *f.outcome
	}
	return fetch.Success(f.html, 200)
}

const gridListing = `<html><body><ol>
	<li class="ui-search-layout__item">
		<a href="https://articulo.mercadolibre.com.ar/MLA-111-notebook?tracking=abc#pos1">Notebook A</a>
	</li>
	<li class="ui-search-layout__item">
		<a href="https://click1.mercadolibre.com.ar/ads/redirect?x=1">Patrocinado</a>
		<a href="https://www.mercadolibre.com.ar/p/MLA222333">Notebook B</a>
	</li>
	<li class="ui-search-layout__item">
		<a href="https://articulo.mercadolibre.com.ar/MLA-111-notebook?tracking=zzz">Notebook A otra vez</a>
	</li>
	<li class="ui-search-layout__item">
		<a href="https://articulo.mercadolibre.com.ar/MLA-444-notebook">Notebook C</a>
	</li>
</ol></body></html>`

func TestSearch_GridListing(t *testing.T) {
	// WHAT: Result cards yield one clean product link each; ad redirects
	// are skipped, tracking parameters stripped, duplicates collapsed.
	// WHY: Sponsored cards put the click1 redirect first inside the card;
	// taking the first anchor blindly would store ad URLs as targets.
	f := &listingFetcher{html: gridListing}
	d := New(f, Config{Limit: 10})

	links, err := d.Search(context.Background(), "notebook lenovo")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	want := []string{
		"https://articulo.mercadolibre.com.ar/MLA-111-notebook",
		"https://www.mercadolibre.com.ar/p/MLA222333",
		"https://articulo.mercadolibre.com.ar/MLA-444-notebook",
	}
	if len(links) != len(want) {
		t.Fatalf("links = %v, want %v", links, want)
	}
	for i := range want {
		if links[i] != want[i] {
			t.Errorf("link[%d] = %q, want %q", i, links[i], want[i])
		}
	}
}

func TestSearch_KeywordHyphenation(t *testing.T) {
	// WHAT: Spaces in the keyword become hyphens in the listing URL.
	f := &listingFetcher{html: gridListing}
	d := New(f, Config{})

	if _, err := d.Search(context.Background(), "  notebook lenovo  "); err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.HasSuffix(f.requestURL, "/notebook-lenovo") {
		t.Errorf("listing url = %q, want hyphenated keyword suffix", f.requestURL)
	}
}

func TestSearch_LimitApplied(t *testing.T) {
	f := &listingFetcher{html: gridListing}
	d := New(f, Config{Limit: 2})

	links, err := d.Search(context.Background(), "notebook")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(links) != 2 {
		t.Errorf("links = %d, want limit of 2", len(links))
	}
}

func TestSearch_ListLayoutFallback(t *testing.T) {
	// WHAT: When the grid selector matches nothing, the list-layout
	// selector is tried.
	// WHY: The marketplace serves either layout depending on category.
	html := `<html><body>
		<div class="ui-search-result__wrapper">
			<a href="https://articulo.mercadolibre.com.ar/MLA-555-mouse">Mouse</a>
		</div>
	</body></html>`
	f := &listingFetcher{html: html}
	d := New(f, Config{})

	links, err := d.Search(context.Background(), "mouse")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(links) != 1 || links[0] != "https://articulo.mercadolibre.com.ar/MLA-555-mouse" {
		t.Errorf("links = %v", links)
	}
}

func TestSearch_EmptyKeyword(t *testing.T) {
	d := New(&listingFetcher{}, Config{})
	if _, err := d.Search(context.Background(), "   "); err == nil {
		t.Error("empty keyword accepted")
	}
}

func TestSearch_FetchFailure(t *testing.T) {
	// WHAT: A failed listing fetch is an error, not an empty result.
	// WHY: "no products found" and "blocked" must stay distinguishable.
	out := fetch.Retryable("blocked: access denied", 403)
	d := New(&listingFetcher{outcome: &out}, Config{})

	if _, err := d.Search(context.Background(), "notebook"); err == nil {
		t.Error("failed fetch returned no error")
	}
}

func TestSearch_NoCards(t *testing.T) {
	f := &listingFetcher{html: "<html><body><p>Sin resultados</p></body></html>"}
	d := New(f, Config{})

	links, err := d.Search(context.Background(), "qwertyuiop")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(links) != 0 {
		t.Errorf("links = %v, want none", links)
	}
}
