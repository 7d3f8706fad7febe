package backtest

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/yourusername/wallstreet-backtest/internal/metrics"
	"github.com/yourusername/wallstreet-backtest/internal/models"
)

// Summarize rolls a trade list into the performance summary. Undefined
// metrics stay None rather than collapsing to zero: a zero-trade run has no
// win rate at all, and a run with no losing trades has gross losses of zero,
// which leaves the profit factor undefined rather than infinite.
func Summarize(trades []models.Trade, generatedAt time.Time) models.PerformanceSummary {
	summary := models.PerformanceSummary{
		GeneratedAt: generatedAt.Format("2006-01-02"),
		DataPoints:  len(trades),
		Trades:      trades,
	}
	if len(trades) == 0 {
		summary.Trades = []models.Trade{}
		return summary
	}

	wins := 0
	var sumReturn, grossGain, grossLoss float64
	var benchmarkSum float64
	benchmarkCount := 0

	for _, t := range trades {
		sumReturn += t.PctReturn
		if t.Won {
			wins++
			grossGain += t.PctReturn
		} else {
			grossLoss += -t.PctReturn
		}
		if t.BenchmarkReturn.IsSome() {
			benchmarkSum += t.BenchmarkReturn.Unwrap()
			benchmarkCount++
		}
	}

	winRate := models.Round1(float64(wins) / float64(len(trades)) * 100)
	avgReturn := models.Round2(sumReturn / float64(len(trades)))
	summary.WinRate = optional.Some(winRate)
	summary.AvgReturn = optional.Some(avgReturn)

	if grossLoss > 0 {
		summary.ProfitFactor = optional.Some(models.Round2(grossGain / grossLoss))
	}
	if benchmarkCount > 0 {
		avgBenchmark := models.Round2(benchmarkSum / float64(benchmarkCount))
		summary.AlphaVsBenchmark = optional.Some(models.Round2(avgReturn - avgBenchmark))
	}

	metrics.UpdateRunSummary(float64(len(trades)), winRate, avgReturn)
	return summary
}
