// Package config handles configuration loading for MandiWatch.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog"  yaml:"catalog"`
	Sources  SourcesConfig  `mapstructure:"sources"  yaml:"sources"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	API      APIConfig      `mapstructure:"api"      yaml:"api"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
}

// CatalogConfig points at the static reference tables read at startup.
type CatalogConfig struct {
	PricesPath string `mapstructure:"prices_path" yaml:"prices_path"` // commodity baseline prices (JSON)
	CropsPath  string `mapstructure:"crops_path"  yaml:"crops_path"`  // crop reference data (JSON)
}

// SourcesConfig holds settings for the external price sources.
type SourcesConfig struct {
	TimeoutSec int              `mapstructure:"timeout_sec" yaml:"timeout_sec"` // per-attempt timeout
	Agmarknet  AgmarknetConfig  `mapstructure:"agmarknet"   yaml:"agmarknet"`
	MandiBoard MandiBoardConfig `mapstructure:"mandiboard"  yaml:"mandiboard"`
	AgriFeeds  AgriFeedsConfig  `mapstructure:"agrifeeds"   yaml:"agrifeeds"`
}

// AgmarknetConfig configures the government price API source.
type AgmarknetConfig struct {
	Enabled bool   `mapstructure:"enabled"  yaml:"enabled"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// MandiBoardConfig configures the state mandi board HTML source.
type MandiBoardConfig struct {
	Enabled bool   `mapstructure:"enabled"  yaml:"enabled"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// AgriFeedsConfig configures the RSS price bulletin source.
type AgriFeedsConfig struct {
	Enabled  bool     `mapstructure:"enabled"   yaml:"enabled"`
	FeedURLs []string `mapstructure:"feed_urls" yaml:"feed_urls"`
}

// Timeout returns the per-attempt source timeout as a duration.
func (s SourcesConfig) Timeout() time.Duration {
	if s.TimeoutSec <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.TimeoutSec) * time.Second
}

// AnalysisConfig holds price pipeline settings.
type AnalysisConfig struct {
	ConcurrentFetches int `mapstructure:"concurrent_fetches" yaml:"concurrent_fetches"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host            string   `mapstructure:"host"              yaml:"host"`
	Port            int      `mapstructure:"port"              yaml:"port"`
	CORSOrigins     []string `mapstructure:"cors_origins"      yaml:"cors_origins"`
	TickIntervalSec int      `mapstructure:"tick_interval_sec" yaml:"tick_interval_sec"` // websocket price tick period
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.mandiwatch/config.yaml (home directory)
//  3. /etc/mandiwatch/config.yaml (system)
//
// Environment variables override config file values.
// Format: MANDIWATCH_<SECTION>_<KEY>, e.g., MANDIWATCH_API_PORT
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".mandiwatch"))
	v.AddConfigPath("/etc/mandiwatch")

	v.SetEnvPrefix("MANDIWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file is optional; defaults plus env vars are enough to run.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix("MANDIWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Catalog defaults
	v.SetDefault("catalog.prices_path", "./config/prices.json")
	v.SetDefault("catalog.crops_path", "./config/crops.json")

	// Source defaults
	v.SetDefault("sources.timeout_sec", 10)
	v.SetDefault("sources.agmarknet.enabled", true)
	v.SetDefault("sources.agmarknet.base_url", "https://agmarknet.gov.in/api/price/commodity")
	v.SetDefault("sources.mandiboard.enabled", true)
	v.SetDefault("sources.mandiboard.base_url", "https://www.krishijagran.com/commodity-prices")
	v.SetDefault("sources.agrifeeds.enabled", false)
	v.SetDefault("sources.agrifeeds.feed_urls", []string{
		"https://agricoop.gov.in/rss/price-bulletins.xml",
	})

	// Analysis defaults
	v.SetDefault("analysis.concurrent_fetches", 5)

	// API defaults
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("api.tick_interval_sec", 30)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
