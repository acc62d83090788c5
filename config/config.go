// Package config loads tlx settings: built-in defaults, overridden by an
// optional TOML file, overridden by environment variables (a .env file in the
// working directory is loaded first when present).
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/etnz/taxlots"
	"github.com/etnz/taxlots/price"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Config is the tlx configuration as written in the TOML file.
type Config struct {
	Strategy    string            `toml:"strategy"`
	Currency    string            `toml:"currency"`
	Materiality string            `toml:"materiality"`
	LogLevel    string            `toml:"log_level"`
	Aliases     map[string]string `toml:"aliases"`
	Price       PriceConfig       `toml:"price"`
}

// PriceConfig configures the price lookup service. Durations use time.ParseDuration syntax.
type PriceConfig struct {
	BaseURL   string            `toml:"base_url"`
	APIKey    string            `toml:"api_key"`
	Attempts  int               `toml:"attempts"`
	Backoff   string            `toml:"backoff"`
	RateLimit float64           `toml:"rate_limit"`
	Timeout   string            `toml:"timeout"`
	CacheTTL  string            `toml:"cache_ttl"`
	CacheDir  string            `toml:"cache_dir"`
	Coins     map[string]string `toml:"coins"`
}

// NewDefaultConfig returns the built-in configuration.
func NewDefaultConfig() *Config {
	def := price.DefaultConfig()
	return &Config{
		Strategy:    taxlots.HIFO.String(),
		Currency:    taxlots.DefaultCurrency,
		Materiality: "0.01",
		LogLevel:    "info",
		Price: PriceConfig{
			BaseURL:   def.BaseURL,
			Attempts:  def.Attempts,
			Backoff:   def.Backoff.String(),
			RateLimit: def.RateLimit,
			Timeout:   def.Timeout.String(),
			CacheTTL:  def.CacheTTL.String(),
		},
	}
}

// Load loads the configuration from the files in paths, later files override
// earlier ones and missing files are skipped. Environment variables override files.
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load() // .env is optional

	config := NewDefaultConfig()
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue // Skip missing files
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("TAXLOTS_STRATEGY"); v != "" {
		config.Strategy = v
	}
	if v := os.Getenv("TAXLOTS_CURRENCY"); v != "" {
		config.Currency = strings.ToUpper(v)
	}
	if v := os.Getenv("TAXLOTS_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
	if v := os.Getenv("COINGECKO_API_KEY"); v != "" {
		config.Price.APIKey = v
	}
	if v := os.Getenv("COINGECKO_BASE_URL"); v != "" {
		config.Price.BaseURL = v
	}
}

// Validate checks every value can be converted.
func (c *Config) Validate() error {
	if _, err := c.StrategyValue(); err != nil {
		return fmt.Errorf("invalid strategy: %w", err)
	}
	if _, err := c.MaterialityValue(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %w", err)
	}
	if _, err := c.PriceConfig(); err != nil {
		return err
	}
	return nil
}

// StrategyValue returns the lot selection strategy.
func (c *Config) StrategyValue() (taxlots.Strategy, error) {
	return taxlots.ParseStrategy(c.Strategy)
}

// MaterialityValue returns the materiality floor in the reporting currency.
func (c *Config) MaterialityValue() (taxlots.Money, error) {
	d, err := decimal.NewFromString(c.Materiality)
	if err != nil {
		return taxlots.Money{}, fmt.Errorf("invalid materiality %q: %w", c.Materiality, err)
	}
	if d.IsNegative() {
		return taxlots.Money{}, fmt.Errorf("invalid materiality %q: must not be negative", c.Materiality)
	}
	return taxlots.M(d, c.Currency), nil
}

// AliasMap returns the asset aliases, the configured ones on top of taxlots.DefaultAliases.
func (c *Config) AliasMap() map[string]string {
	aliases := make(map[string]string, len(taxlots.DefaultAliases)+len(c.Aliases))
	for k, v := range taxlots.DefaultAliases {
		aliases[k] = v
	}
	for k, v := range c.Aliases {
		aliases[strings.ToUpper(k)] = strings.ToUpper(v)
	}
	return aliases
}

// Level returns the log level, info if it cannot be parsed.
func (c *Config) Level() logrus.Level {
	l, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return l
}

// PriceConfig returns the price client configuration.
func (c *Config) PriceConfig() (price.Config, error) {
	cfg := price.Config{
		BaseURL:   c.Price.BaseURL,
		APIKey:    c.Price.APIKey,
		Currency:  strings.ToLower(c.Currency),
		Attempts:  c.Price.Attempts,
		RateLimit: c.Price.RateLimit,
		CacheDir:  c.Price.CacheDir,
		Coins:     c.Price.Coins,
	}
	for _, d := range []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"backoff", c.Price.Backoff, &cfg.Backoff},
		{"timeout", c.Price.Timeout, &cfg.Timeout},
		{"cache_ttl", c.Price.CacheTTL, &cfg.CacheTTL},
	} {
		if d.value == "" {
			continue
		}
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return price.Config{}, fmt.Errorf("invalid price.%s %q: %w", d.name, d.value, err)
		}
		*d.dst = v
	}
	return cfg, nil
}
