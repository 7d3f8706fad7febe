package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "wallstreet-backtest",
			Environment: "development",
			LogLevel:    "info",
		},
		Provider: ProviderConfig{
			BaseURL:           "https://api.polygon.io",
			APIKey:            "test-key",
			RequestIntervalMS: 250,
			TimeoutSeconds:    15,
			CacheTTLSeconds:   300,
			ForwardWindowDays: 10,
		},
		Backtest: BacktestConfig{
			HistoryPath:     "logs/history.json",
			OutputPath:      "logs/backtest_results.json",
			HoldDays:        21,
			MinAgeDays:      5,
			BenchmarkTicker: "SPY",
			BuyActions:      []string{"BUY", "EXPLOSIVE BUY", "GOLDEN TRADE"},
		},
		Reports: ReportsConfig{
			ScanReportPath:        "OPPORTUNITIES.md",
			PerformanceReportPath: "logs/performance.md",
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

func TestLoadWithDefaultsNoFile(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Backtest.HoldDays != 21 {
		t.Errorf("hold_days default = %d, want 21", cfg.Backtest.HoldDays)
	}
	if cfg.Backtest.MinAgeDays != 5 {
		t.Errorf("min_age_days default = %d, want 5", cfg.Backtest.MinAgeDays)
	}
	if cfg.Provider.RequestIntervalMS != 250 {
		t.Errorf("request_interval_ms default = %d, want 250", cfg.Provider.RequestIntervalMS)
	}
	if cfg.Backtest.BenchmarkTicker != "SPY" {
		t.Errorf("benchmark default = %q, want SPY", cfg.Backtest.BenchmarkTicker)
	}
	if len(cfg.Backtest.BuyActions) != 3 {
		t.Errorf("buy_actions default = %v, want 3 entries", cfg.Backtest.BuyActions)
	}
}

func TestLoadExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_POLYGON_KEY", "secret-from-env")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  name: wallstreet-backtest
  environment: development
  log_level: debug
provider:
  base_url: https://api.polygon.io
  api_key: ${TEST_POLYGON_KEY}
  timeout_seconds: 15
  forward_window_days: 10
backtest:
  history_path: logs/history.json
  output_path: logs/backtest_results.json
  hold_days: 21
  min_age_days: 5
  benchmark_ticker: SPY
reports:
  scan_report_path: OPPORTUNITIES.md
  performance_report_path: logs/performance.md
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider.APIKey != "secret-from-env" {
		t.Errorf("api_key = %q, want expanded env value", cfg.Provider.APIKey)
	}
	if cfg.App.LogLevel != "debug" {
		t.Errorf("log_level = %q, want debug", cfg.App.LogLevel)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log level", func(c *Config) { c.App.LogLevel = "verbose" }},
		{"bad environment", func(c *Config) { c.App.Environment = "qa" }},
		{"unknown buy action", func(c *Config) { c.Backtest.BuyActions = []string{"YOLO"} }},
		{"zero hold days", func(c *Config) { c.Backtest.HoldDays = 0 }},
		{"blank benchmark", func(c *Config) { c.Backtest.BenchmarkTicker = " " }},
		{"min age beyond hold window", func(c *Config) { c.Backtest.MinAgeDays = 100 }},
		{"production without key", func(c *Config) {
			c.App.Environment = "production"
			c.Provider.APIKey = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := Validate(cfg); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

func TestMissingCredentialIsValidOutsideProduction(t *testing.T) {
	cfg := validConfig()
	cfg.Provider.APIKey = ""

	if err := Validate(cfg); err != nil {
		t.Fatalf("missing credential should be valid in development: %v", err)
	}
	if cfg.Provider.HasCredentials() {
		t.Errorf("HasCredentials should be false with empty key")
	}
}
