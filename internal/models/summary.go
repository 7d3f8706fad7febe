package models

import (
	"encoding/json"

	"github.com/moznion/go-optional"
)

// PerformanceSummary is the verified-performance rollup written by the
// results sink and consumed by the rendering layer. Metric fields are None
// (serialized as null) when undefined; the renderer shows them as "N/A".
//
// Invariants: DataPoints == len(Trades); all four metrics are None together
// only in the zero-trade case, and partial noneness (profit factor undefined
// while win rate is not) is preserved distinctly from zero.
type PerformanceSummary struct {
	GeneratedAt      string                   `json:"generated_at"`
	DataPoints       int                      `json:"data_points"`
	WinRate          optional.Option[float64] `json:"win_rate"`
	ProfitFactor     optional.Option[float64] `json:"profit_factor"`
	AlphaVsBenchmark optional.Option[float64] `json:"alpha_vs_benchmark"`
	AvgReturn        optional.Option[float64] `json:"avg_return"`
	Trades           []Trade                  `json:"trades"`
}

// MarshalJSON guarantees trades serializes as [] rather than null so the
// output shape is stable for empty runs.
func (p PerformanceSummary) MarshalJSON() ([]byte, error) {
	type alias PerformanceSummary

	out := alias(p)
	if out.Trades == nil {
		out.Trades = []Trade{}
	}

	return json.Marshal(out)
}
