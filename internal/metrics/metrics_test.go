package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestGetRegistryIsStable(t *testing.T) {
	first := GetRegistry()
	second := GetRegistry()

	assert.Same(t, first, second)
}

func TestRecordPriceLookup(t *testing.T) {
	InitRegistry()

	statuses := []string{LookupOK, LookupAbsent, LookupError, LookupCacheHit, LookupDisabled}
	for _, status := range statuses {
		assert.NotPanics(t, func() {
			RecordPriceLookup(status)
		})
	}
}

func TestRecordTradeEvaluated(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name      string
		pctReturn float64
	}{
		{
			name:      "positive return",
			pctReturn: 12.5,
		},
		{
			name:      "zero return",
			pctReturn: 0,
		},
		{
			name:      "negative return",
			pctReturn: -8.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordTradeEvaluated(tt.pctReturn)
			})
		})
	}
}

func TestSnapshotContainsRecordedSeries(t *testing.T) {
	InitRegistry()
	RecordSignalLoaded()
	RecordSignalDropped("invalid_date")
	UpdateRunSummary(4, 75.0, 3.21)

	snap, err := Snapshot()
	require.NoError(t, err)

	assert.Contains(t, snap, "wallstreet_backtest_signals_loaded_total")
	assert.Contains(t, snap, `wallstreet_backtest_signals_dropped_total{reason="invalid_date"}`)
	assert.Equal(t, 4.0, snap["wallstreet_backtest_last_run_trades"])
	assert.Equal(t, 75.0, snap["wallstreet_backtest_last_run_win_rate"])
}

func TestUpdateRunSummary(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		UpdateRunSummary(0, 0, 0)
	})
}
