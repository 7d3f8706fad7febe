package backtest

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"

	"github.com/yourusername/wallstreet-backtest/internal/models"
)

func trade(ticker string, pctReturn float64, benchmark optional.Option[float64]) models.Trade {
	return models.Trade{
		Ticker:          ticker,
		Date:            "2026-06-01",
		Action:          models.ActionBuy,
		EntryPrice:      100,
		ExitPrice:       100 + pctReturn,
		ExitDate:        "2026-06-30",
		PctReturn:       pctReturn,
		BenchmarkReturn: benchmark,
		Won:             pctReturn > 0,
	}
}

func genAt() time.Time {
	return time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)
}

func TestSummarizeMixedTrades(t *testing.T) {
	trades := []models.Trade{
		trade("A", 20, optional.Some(1.5)),
		trade("B", -10, optional.Some(0.5)),
	}

	s := Summarize(trades, genAt())

	if s.GeneratedAt != "2026-08-26" {
		t.Errorf("GeneratedAt = %q", s.GeneratedAt)
	}
	if s.DataPoints != 2 {
		t.Errorf("DataPoints = %d, want 2", s.DataPoints)
	}
	if got := s.WinRate.Unwrap(); got != 50 {
		t.Errorf("WinRate = %v, want 50", got)
	}
	if got := s.ProfitFactor.Unwrap(); got != 2 {
		t.Errorf("ProfitFactor = %v, want 2 (20 gain / 10 loss)", got)
	}
	if got := s.AvgReturn.Unwrap(); got != 5 {
		t.Errorf("AvgReturn = %v, want 5", got)
	}
	// avg benchmark = 1.0, alpha = 5 - 1 = 4
	if got := s.AlphaVsBenchmark.Unwrap(); got != 4 {
		t.Errorf("AlphaVsBenchmark = %v, want 4", got)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, genAt())

	if s.DataPoints != 0 {
		t.Errorf("DataPoints = %d, want 0", s.DataPoints)
	}
	if s.WinRate.IsSome() || s.ProfitFactor.IsSome() || s.AlphaVsBenchmark.IsSome() || s.AvgReturn.IsSome() {
		t.Error("all metrics must be absent for a zero-trade run")
	}
	if s.Trades == nil || len(s.Trades) != 0 {
		t.Error("Trades must be an empty slice")
	}
}

func TestSummarizeNoLossesLeavesProfitFactorUndefined(t *testing.T) {
	trades := []models.Trade{
		trade("A", 5, optional.None[float64]()),
		trade("B", 15, optional.None[float64]()),
	}

	s := Summarize(trades, genAt())

	if s.ProfitFactor.IsSome() {
		t.Error("profit factor must be absent when there are no losing trades")
	}
	if got := s.WinRate.Unwrap(); got != 100 {
		t.Errorf("WinRate = %v, want 100", got)
	}
	if s.AlphaVsBenchmark.IsSome() {
		t.Error("alpha must be absent when no benchmark returns resolved")
	}
}

func TestSummarizeFlatTradeCountsAsLoss(t *testing.T) {
	trades := []models.Trade{
		trade("A", 0, optional.None[float64]()),
	}

	s := Summarize(trades, genAt())

	if got := s.WinRate.Unwrap(); got != 0 {
		t.Errorf("WinRate = %v, want 0 (flat trade is a loss)", got)
	}
	// Flat trade contributes zero gross loss, so profit factor stays undefined.
	if s.ProfitFactor.IsSome() {
		t.Error("profit factor must be absent with zero gross loss")
	}
}

func TestSummarizeWinRateRounding(t *testing.T) {
	trades := []models.Trade{
		trade("A", 1, optional.None[float64]()),
		trade("B", 1, optional.None[float64]()),
		trade("C", -1, optional.None[float64]()),
	}

	s := Summarize(trades, genAt())

	if got := s.WinRate.Unwrap(); got != 66.7 {
		t.Errorf("WinRate = %v, want 66.7", got)
	}
	if got := s.WinRate.Unwrap(); got < 0 || got > 100 {
		t.Errorf("WinRate = %v out of [0,100]", got)
	}
}
