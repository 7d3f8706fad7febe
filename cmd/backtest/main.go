// Package main provides the entry point for the backtest pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/wallstreet-backtest/internal/backtest"
	"github.com/yourusername/wallstreet-backtest/internal/config"
	"github.com/yourusername/wallstreet-backtest/internal/datasource"
	"github.com/yourusername/wallstreet-backtest/internal/logger"
	"github.com/yourusername/wallstreet-backtest/internal/metrics"
	"github.com/yourusername/wallstreet-backtest/internal/report"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		history    = flag.String("history", "", "Override event log path")
		output     = flag.String("output", "", "Override output path for results")
		today      = flag.String("today", "", "Override reference date (YYYY-MM-DD) for reproducible runs")
		benchmark  = flag.String("benchmark", "", "Override benchmark ticker")
	)
	flag.Parse()

	cfg := loadConfigWithSecrets(*configPath)
	log := logger.NewLogger(cfg.App.LogLevel, cfg.App.Environment)
	metrics.InitRegistry()

	if *history != "" {
		cfg.Backtest.HistoryPath = *history
	}
	if *output != "" {
		cfg.Backtest.OutputPath = *output
	}
	if *benchmark != "" {
		cfg.Backtest.BenchmarkTicker = *benchmark
	}

	engineCfg := buildEngineConfig(cfg, *today, log)
	runID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(cfg.Backtest.HistoryPath+"|"+engineCfg.Today.Format("2006-01-02")))
	runLogger := logger.NewRunLogger(log, runID.String())

	historyRecords, err := report.LoadHistory(cfg.Backtest.HistoryPath, runLogger)
	if err != nil {
		runLogger.Fatalf("Cannot run without the event log: %v", err)
	}

	prices := buildPriceSource(cfg, log)
	engine, err := backtest.NewEngine(engineCfg, prices, runLogger)
	if err != nil {
		runLogger.Fatalf("Failed to create engine: %v", err)
	}

	start := time.Now()
	trades := engine.Run(context.Background(), historyRecords)
	summary := backtest.Summarize(trades, engine.Config().Today)
	metrics.RecordRunDuration(time.Since(start).Seconds())

	if err := backtest.WriteSummary(summary, cfg.Backtest.OutputPath); err != nil {
		runLogger.Fatalf("Failed to write results: %v", err)
	}
	runLogger.LogRunComplete(summary.DataPoints, cfg.Backtest.OutputPath)

	fmt.Print(backtest.GenerateConsoleReport(summary))
	if cfg.Metrics.Enabled {
		logMetricsSnapshot(runLogger)
	}
}

func loadConfigWithSecrets(path string) *config.Config {
	bootstrap := logrus.New()
	bootstrap.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		bootstrap.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			bootstrap.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			bootstrap.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		bootstrap.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func buildEngineConfig(cfg *config.Config, todayOverride string, log *logrus.Logger) backtest.EngineConfig {
	var today time.Time
	if todayOverride != "" {
		parsed, err := time.Parse("2006-01-02", todayOverride)
		if err != nil {
			log.Fatalf("Invalid reference date: %v", err)
		}
		today = parsed.UTC()
	}

	engineCfg, err := backtest.FromConfig(&cfg.Backtest, today)
	if err != nil {
		log.Fatalf("Invalid backtest config: %v", err)
	}
	return engineCfg
}

func buildPriceSource(cfg *config.Config, log *logrus.Logger) datasource.PriceSource {
	httpCfg := datasource.HTTPClientConfig{
		Timeout:      cfg.Provider.RequestTimeout(),
		MaxRetries:   cfg.Provider.MaxRetries,
		RetryWaitMin: 100 * time.Millisecond,
		RetryWaitMax: 10 * time.Second,
		Interval:     cfg.Provider.RequestInterval(),
	}
	httpClient := datasource.NewRateLimitedHTTPClient(httpCfg, log)
	return datasource.NewPolygonClient(httpClient, cfg.Provider, log)
}

func logMetricsSnapshot(runLogger *logger.RunLogger) {
	snap, err := metrics.Snapshot()
	if err != nil {
		runLogger.Warnf("Failed to gather run metrics: %v", err)
		return
	}

	fields := make(logrus.Fields, len(snap))
	for name, value := range snap {
		fields[name] = value
	}
	runLogger.WithFields(fields).Info("Run metrics")
}
