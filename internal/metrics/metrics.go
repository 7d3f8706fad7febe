// Package metrics provides the centralized Prometheus metrics registry for the backtest pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Price lookup statuses
const (
	LookupOK       = "ok"
	LookupAbsent   = "absent"
	LookupError    = "error"
	LookupCacheHit = "cache_hit"
	LookupDisabled = "disabled"
)

// Counter metrics
var (
	PriceLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wallstreet_backtest",
		Name:      "price_lookups_total",
		Help:      "Total number of price lookups by resolution status",
	}, []string{"status"})
	SignalsLoadedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wallstreet_backtest",
		Name:      "signals_loaded_total",
		Help:      "Total number of signal records loaded from the event log",
	})
	SignalsDroppedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wallstreet_backtest",
		Name:      "signals_dropped_total",
		Help:      "Total number of signal records dropped by reason",
	}, []string{"reason"})
	SignalsEligibleTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wallstreet_backtest",
		Name:      "signals_eligible_total",
		Help:      "Total number of signals that passed the eligibility filter",
	})
	TradesEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "wallstreet_backtest",
		Name:      "trades_evaluated_total",
		Help:      "Total number of trades fully resolved with entry and exit prices",
	})
	TradesSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wallstreet_backtest",
		Name:      "trades_skipped_total",
		Help:      "Total number of eligible signals skipped by reason",
	}, []string{"reason"})
	ReportRowsParsedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wallstreet_backtest",
		Name:      "report_rows_parsed_total",
		Help:      "Total number of report table rows parsed by report and status",
	}, []string{"report", "status"})
)

// Gauge metrics
var (
	LastRunTrades = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wallstreet_backtest",
		Name:      "last_run_trades",
		Help:      "Number of resolved trades in the most recent run",
	})
	LastRunWinRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wallstreet_backtest",
		Name:      "last_run_win_rate",
		Help:      "Win rate percentage of the most recent run",
	})
	LastRunAvgReturn = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wallstreet_backtest",
		Name:      "last_run_avg_return",
		Help:      "Average percentage return of the most recent run",
	})
)

// Histogram metrics
var (
	PriceLookupLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wallstreet_backtest",
		Name:      "price_lookup_latency_seconds",
		Help:      "Latency of upstream price lookups in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wallstreet_backtest",
		Name:      "run_duration_seconds",
		Help:      "Duration of full backtest runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600},
	})
	TradeReturnPct = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "wallstreet_backtest",
		Name:      "trade_return_pct",
		Help:      "Percentage returns of resolved trades",
		Buckets:   []float64{-50, -20, -10, -5, -2, 0, 2, 5, 10, 20, 50},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(PriceLookupsTotal)
		registry.MustRegister(SignalsLoadedTotal)
		registry.MustRegister(SignalsDroppedTotal)
		registry.MustRegister(SignalsEligibleTotal)
		registry.MustRegister(TradesEvaluatedTotal)
		registry.MustRegister(TradesSkippedTotal)
		registry.MustRegister(ReportRowsParsedTotal)

		// Register gauge metrics
		registry.MustRegister(LastRunTrades)
		registry.MustRegister(LastRunWinRate)
		registry.MustRegister(LastRunAvgReturn)

		// Register histogram metrics
		registry.MustRegister(PriceLookupLatency)
		registry.MustRegister(RunDuration)
		registry.MustRegister(TradeReturnPct)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPriceLookup records a price lookup resolution.
func RecordPriceLookup(status string) {
	PriceLookupsTotal.WithLabelValues(status).Inc()
}

// RecordPriceLookupLatency records upstream price lookup latency.
func RecordPriceLookupLatency(durationSeconds float64) {
	PriceLookupLatency.Observe(durationSeconds)
}

// RecordSignalLoaded records a signal record loaded from the event log.
func RecordSignalLoaded() {
	SignalsLoadedTotal.Inc()
}

// RecordSignalDropped records a signal record dropped during loading.
func RecordSignalDropped(reason string) {
	SignalsDroppedTotal.WithLabelValues(reason).Inc()
}

// RecordSignalEligible records a signal that passed the eligibility filter.
func RecordSignalEligible() {
	SignalsEligibleTotal.Inc()
}

// RecordTradeEvaluated records a fully resolved trade and its return.
func RecordTradeEvaluated(pctReturn float64) {
	TradesEvaluatedTotal.Inc()
	TradeReturnPct.Observe(pctReturn)
}

// RecordTradeSkipped records an eligible signal skipped during evaluation.
func RecordTradeSkipped(reason string) {
	TradesSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordReportRow records a parsed report table row.
// report should be one of: "scan", "performance"
// status should be one of: "ok", "malformed"
func RecordReportRow(report, status string) {
	ReportRowsParsedTotal.WithLabelValues(report, status).Inc()
}

// RecordRunDuration records the duration of a full backtest run.
func RecordRunDuration(durationSeconds float64) {
	RunDuration.Observe(durationSeconds)
}

// UpdateRunSummary updates the last-run gauges from an aggregated run.
func UpdateRunSummary(trades float64, winRate, avgReturn float64) {
	LastRunTrades.Set(trades)
	LastRunWinRate.Set(winRate)
	LastRunAvgReturn.Set(avgReturn)
}
