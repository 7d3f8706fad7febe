// Package backtest evaluates past scanner signals against realized market
// prices: it filters the event log down to aged buy-class signals, resolves
// each one's exit price from a PriceSource, and rolls the resulting trades
// into a performance summary.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/moznion/go-optional"

	"github.com/yourusername/wallstreet-backtest/internal/datasource"
	"github.com/yourusername/wallstreet-backtest/internal/logger"
	"github.com/yourusername/wallstreet-backtest/internal/metrics"
	"github.com/yourusername/wallstreet-backtest/internal/models"
)

// Engine orchestrates one evaluation run over the event log.
type Engine struct {
	config EngineConfig
	prices datasource.PriceSource
	logger *logger.RunLogger
}

// NewEngine creates a new evaluation engine.
func NewEngine(cfg EngineConfig, prices datasource.PriceSource, runLogger *logger.RunLogger) (*Engine, error) {
	if prices == nil {
		return nil, fmt.Errorf("price source is required")
	}
	if runLogger == nil {
		return nil, fmt.Errorf("run logger is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Engine{
		config: cfg,
		prices: prices,
		logger: runLogger,
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() EngineConfig {
	return e.config
}

// TradingDaysAfter approximates the calendar date n trading days after d
// (n trading days ≈ n * 7/5 calendar days).
func TradingDaysAfter(d time.Time, n int) time.Time {
	days := int(float64(n)*7/5 + 0.5)
	return d.AddDate(0, 0, days)
}

// Eligible filters the event log down to signals worth evaluating: buy-class
// action, at least MinAgeDays old, and a positive entry price. Log order is
// preserved.
func (e *Engine) Eligible(history []models.SignalRecord) []models.SignalRecord {
	var eligible []models.SignalRecord
	for _, rec := range history {
		if !e.config.BuyActions[rec.Action.Normalize()] {
			continue
		}
		if rec.Date.After(e.config.Today.AddDate(0, 0, -e.config.MinAgeDays)) {
			continue
		}
		if rec.Price <= 0 {
			continue
		}
		eligible = append(eligible, rec)
		metrics.RecordSignalEligible()
	}

	e.logger.LogEligibility(len(history), len(eligible))
	return eligible
}

// Run evaluates every eligible signal sequentially. Signals whose hold window
// has not yet closed, or whose exit price cannot be resolved, are skipped with
// a log line; a trade whose benchmark lookup fails is kept with an absent
// benchmark return. Each evaluated trade costs at most three price lookups
// (exit, benchmark entry, benchmark exit), each gated by the source's own
// rate limiter.
func (e *Engine) Run(ctx context.Context, history []models.SignalRecord) []models.Trade {
	eligible := e.Eligible(history)

	var trades []models.Trade
	for _, sig := range eligible {
		signalDate := sig.Date.Format("2006-01-02")
		exitDate := TradingDaysAfter(sig.Date, e.config.HoldDays)

		if !exitDate.Before(e.config.Today) {
			e.logger.LogTradeSkipped(sig.Ticker, signalDate, "outcome_not_yet_known")
			metrics.RecordTradeSkipped("outcome_not_yet_known")
			continue
		}

		exitPrice := e.prices.FetchClose(ctx, sig.Ticker, exitDate)
		if exitPrice.IsNone() {
			e.logger.LogTradeSkipped(sig.Ticker, signalDate, "no_exit_price")
			metrics.RecordTradeSkipped("no_exit_price")
			continue
		}

		benchmark := e.benchmarkReturn(ctx, sig.Date, exitDate)
		trade := models.NewTrade(sig, exitDate, exitPrice.Unwrap(), benchmark)
		trades = append(trades, trade)

		e.logger.LogTradeEvaluated(trade.Ticker, trade.Date, trade.ExitDate, trade.PctReturn, trade.Won)
		metrics.RecordTradeEvaluated(trade.PctReturn)
	}

	return trades
}

// benchmarkReturn computes the benchmark's percentage return over the same
// hold window. Absent when either lookup fails.
func (e *Engine) benchmarkReturn(ctx context.Context, entryDate, exitDate time.Time) optional.Option[float64] {
	entry := e.prices.FetchClose(ctx, e.config.BenchmarkTicker, entryDate)
	exit := e.prices.FetchClose(ctx, e.config.BenchmarkTicker, exitDate)
	if entry.IsNone() || exit.IsNone() {
		return optional.None[float64]()
	}

	entryPx, exitPx := entry.Unwrap(), exit.Unwrap()
	if entryPx == 0 || exitPx == 0 {
		return optional.None[float64]()
	}
	pct := (exitPx - entryPx) / entryPx * 100
	return optional.Some(models.Round2(pct))
}
