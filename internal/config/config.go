// Package config loads application configuration from an optional YAML
// file and NSEFETCH_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the fetcher and explorer.
type Config struct {
	// BaseURL of the deployed NSE event board API.
	BaseURL string `mapstructure:"base_url"`

	// OutputDir is where dataset files and the summary index are written.
	OutputDir string `mapstructure:"output_dir"`

	// PerPage is the page size requested from the source (ceiling 1000).
	PerPage int `mapstructure:"per_page"`

	// PageDelay is the fixed politeness pause between page requests.
	PageDelay time.Duration `mapstructure:"page_delay"`

	// RequestTimeout per page request.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// HealthTimeout per health probe.
	HealthTimeout time.Duration `mapstructure:"health_timeout"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `mapstructure:"log_level"`

	// LogPretty enables human-readable console logs.
	LogPretty bool `mapstructure:"log_pretty"`

	// RedisAddr enables the page cache when non-empty (host:port).
	RedisAddr string `mapstructure:"redis_addr"`

	// CacheTTL is how long cached pages stay fresh.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// ProceedWithoutReady allows a bulk fetch even when the health probe
	// reports zero ready monitors.
	ProceedWithoutReady bool `mapstructure:"proceed_without_ready"`
}

// Load reads configuration from the given file path (optional) with
// defaults and environment overrides applied.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("base_url", "https://nseeventboard-production.up.railway.app")
	v.SetDefault("output_dir", "fetched_data")
	v.SetDefault("per_page", 1000)
	v.SetDefault("page_delay", 500*time.Millisecond)
	v.SetDefault("request_timeout", 30*time.Second)
	v.SetDefault("health_timeout", 10*time.Second)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_pretty", true)
	v.SetDefault("redis_addr", "")
	v.SetDefault("cache_ttl", 15*time.Minute)
	v.SetDefault("proceed_without_ready", false)

	v.SetEnvPrefix("NSEFETCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base_url must not be empty")
	}
	if cfg.PerPage <= 0 || cfg.PerPage > 1000 {
		return nil, fmt.Errorf("per_page must be in 1..1000 (got %d)", cfg.PerPage)
	}

	return &cfg, nil
}
