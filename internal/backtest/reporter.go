package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/moznion/go-optional"

	"github.com/yourusername/wallstreet-backtest/internal/models"
)

// WriteSummary serializes the summary and fully overwrites any previous
// output. The JSON is written to a temp file in the target directory and
// renamed into place, so readers never observe a partial file.
func WriteSummary(summary models.PerformanceSummary, outputPath string) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize summary: %w", err)
	}

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(outputPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp output file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp output file: %w", err)
	}

	if err := os.Rename(tmpPath, outputPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to commit summary: %w", err)
	}
	return nil
}

// GenerateConsoleReport formats the summary for terminal output. Undefined
// metrics print as N/A.
func GenerateConsoleReport(summary models.PerformanceSummary) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Generated At: %s\n", summary.GeneratedAt))
	builder.WriteString(fmt.Sprintf("Data Points: %d\n", summary.DataPoints))
	builder.WriteString(fmt.Sprintf("Win Rate: %s\n", formatMetric(summary.WinRate, "%.1f%%")))
	builder.WriteString(fmt.Sprintf("Profit Factor: %s\n", formatMetric(summary.ProfitFactor, "%.2f")))
	builder.WriteString(fmt.Sprintf("Alpha vs Benchmark: %s\n", formatMetric(summary.AlphaVsBenchmark, "%.2f%%")))
	builder.WriteString(fmt.Sprintf("Avg Return: %s\n", formatMetric(summary.AvgReturn, "%.2f%%")))
	return builder.String()
}

func formatMetric(v optional.Option[float64], format string) string {
	if v.IsNone() {
		return "N/A"
	}
	return fmt.Sprintf(format, v.Unwrap())
}
