// Package config provides configuration management for the WallStreet backtest pipeline.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Provider ProviderConfig `mapstructure:"provider" validate:"required"`
	Backtest BacktestConfig `mapstructure:"backtest" validate:"required"`
	Reports  ReportsConfig  `mapstructure:"reports" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ProviderConfig represents the external price provider configuration.
// APIKey is optional: when empty, price fetching is disabled and the
// evaluator produces zero trades rather than an error.
type ProviderConfig struct {
	BaseURL           string `mapstructure:"base_url" validate:"required,url"`
	APIKey            string `mapstructure:"api_key"`
	RequestIntervalMS int    `mapstructure:"request_interval_ms" validate:"gte=0"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0"`
	CacheTTLSeconds   int    `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
	ForwardWindowDays int    `mapstructure:"forward_window_days" validate:"required,gt=0"`
}

// BacktestConfig represents outcome-evaluation configuration
type BacktestConfig struct {
	HistoryPath     string   `mapstructure:"history_path" validate:"required"`
	OutputPath      string   `mapstructure:"output_path" validate:"required"`
	HoldDays        int      `mapstructure:"hold_days" validate:"required,gt=0"`
	MinAgeDays      int      `mapstructure:"min_age_days" validate:"required,gt=0"`
	BenchmarkTicker string   `mapstructure:"benchmark_ticker" validate:"required"`
	BuyActions      []string `mapstructure:"buy_actions" validate:"omitempty,min=1,buyactions"`
}

// ReportsConfig represents the optional text-report inputs. Either path may
// point at a missing file; that report's fields are simply absent.
type ReportsConfig struct {
	ScanReportPath        string `mapstructure:"scan_report_path" validate:"required"`
	PerformanceReportPath string `mapstructure:"performance_report_path" validate:"required"`
}

// MetricsConfig represents pipeline instrumentation configuration
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// RequestInterval returns the minimum delay between provider requests.
func (c *ProviderConfig) RequestInterval() time.Duration {
	return time.Duration(c.RequestIntervalMS) * time.Millisecond
}

// RequestTimeout returns the per-request timeout.
func (c *ProviderConfig) RequestTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// CacheTTL returns how long resolved closes stay cached.
func (c *ProviderConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// HasCredentials reports whether the provider can be queried at all.
func (c *ProviderConfig) HasCredentials() bool {
	return c.APIKey != ""
}

// AggsURL builds the daily-aggregates URL for a ticker and date range.
func (c *ProviderConfig) AggsURL(ticker string, from, to time.Time) string {
	return fmt.Sprintf(
		"%s/v2/aggs/ticker/%s/range/1/day/%s/%s",
		c.BaseURL,
		ticker,
		from.Format("2006-01-02"),
		to.Format("2006-01-02"),
	)
}
