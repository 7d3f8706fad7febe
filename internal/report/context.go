package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/wallstreet-backtest/internal/models"
)

// watchlistLimit caps the fallback watchlist built from the event log.
const watchlistLimit = 10

// DashboardContext merges everything the rendering layer needs into one
// record: scan metadata, market context, counters, headline performance
// figures and the active watchlist.
type DashboardContext struct {
	Scan             ScanMeta                   `json:"scan"`
	Market           MarketContext              `json:"market"`
	Counters         ScanCounters               `json:"counters"`
	Performance      *PerformanceReport         `json:"performance"`
	Watchlist        []models.OpportunityRecord `json:"watchlist"`
	TotalSignals     int                        `json:"total_signals"`
	LatestSignalDate string                     `json:"latest_signal_date,omitempty"`
}

// BuildDashboardContext merges the parsed reports with the event log. When
// the scan report carries no opportunity table, the watchlist falls back to
// the top-scored buy-class signals from the latest date in the log.
func BuildDashboardContext(scan *ScanReport, perf *PerformanceReport, history []models.SignalRecord, logger logrus.FieldLogger) *DashboardContext {
	ctx := &DashboardContext{
		Scan:         scan.Meta,
		Market:       scan.Context,
		Counters:     scan.Counters,
		Performance:  perf,
		Watchlist:    scan.Opportunities,
		TotalSignals: len(history),
	}

	latest := latestSignalDate(history)
	if !latest.IsZero() {
		ctx.LatestSignalDate = latest.Format("2006-01-02")
	}

	if len(ctx.Watchlist) == 0 && len(history) > 0 {
		ctx.Watchlist = watchlistFromHistory(history, latest)
		logger.WithField("entries", len(ctx.Watchlist)).
			Info("No opportunity table in scan report, built watchlist from event log")
	}
	if ctx.Watchlist == nil {
		ctx.Watchlist = []models.OpportunityRecord{}
	}
	return ctx
}

func latestSignalDate(history []models.SignalRecord) time.Time {
	var latest time.Time
	for _, rec := range history {
		if rec.Date.After(latest) {
			latest = rec.Date
		}
	}
	return latest
}

// watchlistFromHistory picks the latest date's buy-class signals (WATCH
// included) ordered by score descending, capped at watchlistLimit.
func watchlistFromHistory(history []models.SignalRecord, latest time.Time) []models.OpportunityRecord {
	watchable := map[models.Action]bool{
		models.ActionBuy:          true,
		models.ActionExplosiveBuy: true,
		models.ActionGoldenTrade:  true,
		models.ActionWatch:        true,
	}

	var candidates []models.SignalRecord
	for _, rec := range history {
		if rec.Date.Equal(latest) && watchable[rec.Action.Normalize()] {
			candidates = append(candidates, rec)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	if len(candidates) > watchlistLimit {
		candidates = candidates[:watchlistLimit]
	}

	rows := make([]models.OpportunityRecord, 0, len(candidates))
	for _, rec := range candidates {
		rows = append(rows, models.OpportunityRecord{
			Ticker:           rec.Ticker,
			SectorETF:        "—",
			Action:           rec.Action,
			Score:            rec.Score,
			Certainty:        "—",
			EarningsSurprise: "—",
			RS1d:             "—",
			StopLoss:         fmt.Sprintf("$%.2f (entry)", rec.Price),
		})
	}
	return rows
}
