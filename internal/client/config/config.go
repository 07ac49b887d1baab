package config

import "time"

// Config holds runtime settings for the SIGT client.
//
// Fields:
//   - APIBaseURL: base URL of the SIGT REST API.
//   - RequestTimeout: per-request deadline for API calls.
//   - DataDir: directory holding the local database and device key file.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DataDir        string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "https://api.sigt.com.br"
	c.RequestTimeout = 10 * time.Second
	c.DataDir = "."
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
