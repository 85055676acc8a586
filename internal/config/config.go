// Package config handles pricewatch configuration from YAML files.
// All options are read once per run; there is no hot reload.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level pricewatch configuration.
type Config struct {
	Browser   BrowserConfig   `yaml:"browser"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Scrape    ScrapeConfig    `yaml:"scrape"`
	Run       RunConfig       `yaml:"run"`
	Selectors SelectorConfig  `yaml:"selectors"`
	Storage   StorageConfig   `yaml:"storage"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Sinks     []SinkConfig    `yaml:"sinks"`
}

// BrowserConfig controls Chrome lifecycle and anti-detection behaviour.
type BrowserConfig struct {
	// Remote is the WebSocket URL of an external Chrome instance.
	// Empty = launch a local Chrome via launcher.
	Remote string `yaml:"remote"`

	// ResourceBlocking lists resource types to block (images, fonts, media, stylesheets).
	ResourceBlocking []string `yaml:"resource_blocking"`

	// IdentityPool is the set of client identity strings rotated per fetch.
	IdentityPool []string `yaml:"identity_pool"`
}

// FetchConfig controls a single page fetch.
type FetchConfig struct {
	// Timeout is the per-fetch deadline covering navigation and render wait.
	Timeout time.Duration `yaml:"timeout"`

	// NavJitter is the upper bound of the randomized pre-navigation delay.
	NavJitter time.Duration `yaml:"nav_jitter"`
}

// ScrapeConfig controls the per-target retry state machine.
type ScrapeConfig struct {
	// MaxRetries is the total attempt budget per target.
	MaxRetries int `yaml:"max_retries"`

	// BaseBackoff is the first retry delay; subsequent delays double.
	BaseBackoff time.Duration `yaml:"base_backoff"`

	// MaxBackoff caps the exponential delay growth.
	MaxBackoff time.Duration `yaml:"max_backoff"`

	// DefaultCurrency is used when no currency is extracted from the page.
	DefaultCurrency string `yaml:"default_currency"`
}

// RunConfig controls a whole scraping run.
type RunConfig struct {
	// MaxConcurrency is the fixed ceiling of in-flight scrapes.
	MaxConcurrency int `yaml:"max_concurrency"`
}

// SelectorConfig holds the ordered extraction strategies per field,
// most specific first. Markup drift is repaired here, not in code.
type SelectorConfig struct {
	Price    []string `yaml:"price"`
	Name     []string `yaml:"name"`
	Currency []string `yaml:"currency"`
}

// StorageConfig locates the sqlite shard holding targets and history.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// DiscoveryConfig controls keyword-driven target discovery.
type DiscoveryConfig struct {
	// SearchURL is a template with one %s verb for the hyphenated keyword.
	SearchURL string `yaml:"search_url"`

	// Limit caps the number of product URLs returned per search.
	Limit int `yaml:"limit"`

	// CardSelectors locate result cards; grid and list layouts differ.
	CardSelectors []string `yaml:"card_selectors"`

	// LinkPatterns must match an href for it to count as a product link.
	LinkPatterns []string `yaml:"link_patterns"`

	// ExcludePatterns reject hrefs (sponsored/ad redirects).
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

// SinkConfig defines an output backend for records and failure reports.
type SinkConfig struct {
	Type string `yaml:"type"` // stdout | csv | webhook | store
	URL  string `yaml:"url"`  // for webhook
	Path string `yaml:"path"` // for csv
}

// LoadFile reads a YAML configuration file and applies defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns a Config with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero values with working defaults tuned for
// MercadoLibre product pages.
func (c *Config) ApplyDefaults() {
	if len(c.Browser.IdentityPool) == 0 {
		c.Browser.IdentityPool = []string{
			"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		}
	}
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = 30 * time.Second
	}
	if c.Fetch.NavJitter <= 0 {
		c.Fetch.NavJitter = 800 * time.Millisecond
	}
	if c.Scrape.MaxRetries <= 0 {
		c.Scrape.MaxRetries = 3
	}
	if c.Scrape.BaseBackoff <= 0 {
		c.Scrape.BaseBackoff = 2 * time.Second
	}
	if c.Scrape.MaxBackoff <= 0 {
		c.Scrape.MaxBackoff = 60 * time.Second
	}
	if c.Scrape.DefaultCurrency == "" {
		c.Scrape.DefaultCurrency = "ARS"
	}
	if c.Run.MaxConcurrency <= 0 {
		c.Run.MaxConcurrency = 3
	}
	if len(c.Selectors.Price) == 0 {
		c.Selectors.Price = []string{
			".ui-pdp-price__second-line .andes-money-amount__fraction",
			".price-tag-fraction",
			".andes-money-amount__fraction",
		}
	}
	if len(c.Selectors.Name) == 0 {
		c.Selectors.Name = []string{
			"h1.ui-pdp-title",
			"h1[class*='title']",
		}
	}
	if len(c.Selectors.Currency) == 0 {
		c.Selectors.Currency = []string{
			".ui-pdp-price__second-line .andes-money-amount__currency-symbol",
			".andes-money-amount__currency-symbol",
		}
	}
	if c.Storage.Path == "" {
		c.Storage.Path = "data/pricewatch.db"
	}
	if c.Discovery.SearchURL == "" {
		c.Discovery.SearchURL = "https://listado.mercadolibre.com.ar/%s"
	}
	if c.Discovery.Limit <= 0 {
		c.Discovery.Limit = 5
	}
	if len(c.Discovery.CardSelectors) == 0 {
		c.Discovery.CardSelectors = []string{
			"li.ui-search-layout__item",
			"div.ui-search-result__wrapper",
		}
	}
	if len(c.Discovery.LinkPatterns) == 0 {
		c.Discovery.LinkPatterns = []string{"/p/", "articulo.mercadolibre"}
	}
	if len(c.Discovery.ExcludePatterns) == 0 {
		c.Discovery.ExcludePatterns = []string{"click1"}
	}
}
