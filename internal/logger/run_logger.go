// Package logger provides run-scoped logging for the backtest pipeline.
package logger

import (
	"github.com/sirupsen/logrus"
)

// RunLogger provides dedicated logging for one pipeline run. Every entry
// carries the deterministic run ID so interleaved cron output can be
// separated after the fact.
type RunLogger struct {
	*logrus.Entry
}

// NewRunLogger creates a new run logger.
func NewRunLogger(baseLogger *logrus.Logger, runID string) *RunLogger {
	return &RunLogger{
		Entry: baseLogger.WithFields(logrus.Fields{
			"component": "backtest",
			"run_id":    runID,
		}),
	}
}

// LogEligibility logs the outcome of the eligibility filter.
func (rl *RunLogger) LogEligibility(total, eligible int) {
	rl.WithFields(logrus.Fields{
		"history_entries":  total,
		"eligible_signals": eligible,
	}).Info("Eligibility filter applied")
}

// LogTradeEvaluated logs a completed trade evaluation.
func (rl *RunLogger) LogTradeEvaluated(ticker, signalDate, exitDate string, pctReturn float64, won bool) {
	rl.WithFields(logrus.Fields{
		"ticker":      ticker,
		"signal_date": signalDate,
		"exit_date":   exitDate,
		"pct_return":  pctReturn,
		"won":         won,
	}).Info("Trade evaluated")
}

// LogTradeSkipped logs a signal excluded from this run.
func (rl *RunLogger) LogTradeSkipped(ticker, signalDate, reason string) {
	rl.WithFields(logrus.Fields{
		"ticker":      ticker,
		"signal_date": signalDate,
		"reason":      reason,
	}).Warn("Signal skipped")
}

// LogRunComplete logs the end-of-run summary line.
func (rl *RunLogger) LogRunComplete(dataPoints int, outputPath string) {
	rl.WithFields(logrus.Fields{
		"data_points": dataPoints,
		"output_path": outputPath,
	}).Info("Backtest complete")
}
