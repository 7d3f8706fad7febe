package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/wallstreet-backtest/internal/config"
	"github.com/yourusername/wallstreet-backtest/internal/models"
	"github.com/yourusername/wallstreet-backtest/internal/report"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	logger     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "report-status",
	Short: "Print the merged dashboard context",
	Long: `Parses the scan report, the performance report and the scanner event log,
merges them into the dashboard context and prints it as JSON for the
rendering layer.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		setupLogger()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return printContext()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("report-status %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	return err
}

func setupLogger() {
	logger = logrus.New()
	logger.SetLevel(logrus.WarnLevel)
}

func printContext() error {
	scan, err := report.ReadScanReport(cfg.Reports.ScanReportPath, logger)
	if err != nil {
		return fmt.Errorf("failed to read scan report: %w", err)
	}
	perf, err := report.ReadPerformanceReport(cfg.Reports.PerformanceReportPath, logger)
	if err != nil {
		return fmt.Errorf("failed to read performance report: %w", err)
	}

	// The event log is optional here: the status command still has the
	// reports to show when no scan has ever run.
	var history []models.SignalRecord
	if loaded, err := report.LoadHistory(cfg.Backtest.HistoryPath, logger); err == nil {
		history = loaded
	} else {
		logger.WithField("path", cfg.Backtest.HistoryPath).
			Warnf("Event log unavailable: %v", err)
	}

	ctx := report.BuildDashboardContext(scan, perf, history, logger)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(ctx)
}
