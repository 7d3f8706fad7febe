// Package config provides configuration management for the WallStreet backtest pipeline.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "WALLSTREET"

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with documented defaults for optional
// fields. A missing config file is not an error: defaults plus environment
// variables are enough to run against the committed layout.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return v
}

// setDefaults records the documented defaults for the pipeline. Hold period,
// minimum age, buy-action set, and the request interval mirror the scanner's
// published operating values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "wallstreet-backtest")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("provider.base_url", "https://api.polygon.io")
	v.SetDefault("provider.api_key", os.Getenv("POLYGON_API_KEY"))
	v.SetDefault("provider.request_interval_ms", 250)
	v.SetDefault("provider.timeout_seconds", 15)
	v.SetDefault("provider.max_retries", 0)
	v.SetDefault("provider.cache_ttl_seconds", 300)
	v.SetDefault("provider.forward_window_days", 10)

	v.SetDefault("backtest.history_path", "logs/history.json")
	v.SetDefault("backtest.output_path", "logs/backtest_results.json")
	v.SetDefault("backtest.hold_days", 21)
	v.SetDefault("backtest.min_age_days", 5)
	v.SetDefault("backtest.benchmark_ticker", "SPY")
	v.SetDefault("backtest.buy_actions", []string{"BUY", "EXPLOSIVE BUY", "GOLDEN TRADE"})

	v.SetDefault("reports.scan_report_path", "OPPORTUNITIES.md")
	v.SetDefault("reports.performance_report_path", "logs/performance.md")

	v.SetDefault("metrics.enabled", true)
}
