package pricewatch

import "github.com/hazyhaar/pricewatch/internal/config"

// Config is the top-level pricewatch configuration.
type Config = config.Config

// SinkConfig defines one configured output backend.
type SinkConfig = config.SinkConfig

// LoadConfigFile reads a YAML configuration file with defaults applied.
func LoadConfigFile(path string) (*Config, error) {
	return config.LoadFile(path)
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() *Config {
	return config.Default()
}
