package models

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
)

// Trade is the evaluated outcome of one eligible signal. It exists only when
// the signal's hold window has closed and both entry and exit prices were
// resolvable. BenchmarkReturn is None when either benchmark price lookup
// failed; the trade itself is still kept.
type Trade struct {
	Ticker          string                   `json:"ticker"`
	Date            string                   `json:"date"`
	Action          Action                   `json:"action"`
	EntryPrice      float64                  `json:"entry_price" validate:"gt=0"`
	ExitPrice       float64                  `json:"exit_price"`
	ExitDate        string                   `json:"exit_date"`
	PctReturn       float64                  `json:"pct_return"`
	BenchmarkReturn optional.Option[float64] `json:"benchmark_return"`
	Won             bool                     `json:"won"`
}

// NewTrade builds a trade from resolved prices. The win flag is strictly
// positive return: a flat trade counts as a loss.
func NewTrade(sig SignalRecord, exitDate time.Time, exitPrice float64, benchmark optional.Option[float64]) Trade {
	pct := (exitPrice - sig.Price) / sig.Price * 100

	return Trade{
		Ticker:          sig.Ticker,
		Date:            sig.Date.Format("2006-01-02"),
		Action:          sig.Action,
		EntryPrice:      Round2(sig.Price),
		ExitPrice:       Round2(exitPrice),
		ExitDate:        exitDate.Format("2006-01-02"),
		PctReturn:       Round2(pct),
		BenchmarkReturn: benchmark,
		Won:             pct > 0,
	}
}

// Round1 rounds to one decimal place with decimal arithmetic so repeated
// runs over the same inputs serialize identically.
func Round1(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
