package report

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/wallstreet-backtest/internal/models"
)

const scanFixture = "# 🔍 Opportunity Scan\n\n" +
	"**Scan Date:** 2026-08-14 | **Time:** 09:45 ET | **Session:** REGULAR | **Mode:** full **Tickers Scanned:** 412\n\n" +
	"## Market Context\n\n" +
	"| Indicator | Reading |\n" +
	"|-----------|---------|\n" +
	"| VIX | 14.2 (LOW) |\n" +
	"| Sector Health | 8/11 green |\n" +
	"| General Sentiment | Risk-on |\n\n" +
	"## Summary\n\n" +
	"- **Total scanned:** 412\n" +
	"- **Passed filters:** 37\n" +
	"- **Golden Trades 🏆:** 2\n" +
	"- **Explosive signals:** 5\n" +
	"- **High-confidence buys:** 11\n\n" +
	"## Opportunities\n\n" +
	"| Ticker | Sector ETF | Action | Score | Certainty | Earnings Surprise | RS (1d) | Vol | ATR | Stop-Loss |\n" +
	"|--------|------------|--------|-------|-----------|-------------------|---------|-----|-----|-----------|\n" +
	"| NVDA | XLK | **GOLDEN TRADE** | 🏆 92 | HIGH | +8.2% | +2.1% | 3.1x | 4.2 | $118.40 |\n" +
	"| AMD | XLK | BUY | 71 | MED | +1.4% | +0.8% | 1.6x | 3.1 | $152.10 |\n" +
	"| TRUNCATED | XLK | BUY | 55 |\n" +
	"| JPM | XLF | WATCH | 44 | LOW | -0.3% | +0.1% | 1.1x | 2.0 | $198.22 |\n\n" +
	"Generated by scanner v3.\n"

func testLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestParseScanReportMetadata(t *testing.T) {
	rep := ParseScanReport(scanFixture)

	if rep.Meta.ScanDate != "2026-08-14" {
		t.Errorf("ScanDate = %q, want 2026-08-14", rep.Meta.ScanDate)
	}
	if rep.Meta.ScanTime != "09:45 ET" {
		t.Errorf("ScanTime = %q, want 09:45 ET", rep.Meta.ScanTime)
	}
	if rep.Meta.Session != "REGULAR" {
		t.Errorf("Session = %q, want REGULAR", rep.Meta.Session)
	}
	if rep.Meta.Mode != "full" {
		t.Errorf("Mode = %q, want full", rep.Meta.Mode)
	}
	if rep.Meta.TickersScanned != 412 {
		t.Errorf("TickersScanned = %d, want 412", rep.Meta.TickersScanned)
	}
}

func TestParseScanReportMarketContext(t *testing.T) {
	rep := ParseScanReport(scanFixture)

	if got := rep.Context.VIX.Unwrap(); got != "14.2 (LOW)" {
		t.Errorf("VIX = %q, want 14.2 (LOW)", got)
	}
	if got := rep.Context.SectorHealth.Unwrap(); got != "8/11 green" {
		t.Errorf("SectorHealth = %q, want 8/11 green", got)
	}
	if got := rep.Context.Sentiment.Unwrap(); got != "Risk-on" {
		t.Errorf("Sentiment = %q, want Risk-on", got)
	}
}

func TestParseScanReportCounters(t *testing.T) {
	rep := ParseScanReport(scanFixture)

	cases := []struct {
		name string
		got  int
		want int
	}{
		{"total scanned", rep.Counters.TotalScanned.Unwrap(), 412},
		{"passed filters", rep.Counters.PassedFilters.Unwrap(), 37},
		{"golden trades with emoji suffix", rep.Counters.GoldenTrades.Unwrap(), 2},
		{"explosive signals", rep.Counters.ExplosiveSignals.Unwrap(), 5},
		{"high confidence", rep.Counters.HighConfidence.Unwrap(), 11},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s = %d, want %d", tc.name, tc.got, tc.want)
		}
	}
}

func TestParseScanReportOpportunities(t *testing.T) {
	rep := ParseScanReport(scanFixture)

	if len(rep.Opportunities) != 3 {
		t.Fatalf("opportunities = %d, want 3 (truncated row dropped)", len(rep.Opportunities))
	}
	if rep.MalformedRows != 1 {
		t.Errorf("MalformedRows = %d, want 1", rep.MalformedRows)
	}

	first := rep.Opportunities[0]
	if first.Ticker != "NVDA" {
		t.Errorf("first ticker = %q, want NVDA", first.Ticker)
	}
	if first.Action != models.ActionGoldenTrade {
		t.Errorf("emphasis not stripped from action: %q", first.Action)
	}
	if !models.BuyActions()[first.Action.Normalize()] {
		t.Errorf("parsed action %q should classify as buy-class", first.Action)
	}
	if first.Score != 92 {
		t.Errorf("score with emoji prefix = %d, want 92", first.Score)
	}
	if first.StopLoss != "$118.40" {
		t.Errorf("stop loss = %q, want $118.40", first.StopLoss)
	}

	if rep.Opportunities[2].Ticker != "JPM" {
		t.Errorf("row after malformed row lost: got %q", rep.Opportunities[2].Ticker)
	}
}

func TestParseScanReportEmptyText(t *testing.T) {
	rep := ParseScanReport("")

	if rep.Meta.ScanDate != "" {
		t.Errorf("ScanDate = %q, want empty", rep.Meta.ScanDate)
	}
	if rep.Context.VIX.IsSome() {
		t.Error("VIX should be absent")
	}
	if rep.Counters.TotalScanned.IsSome() {
		t.Error("TotalScanned should be absent")
	}
	if len(rep.Opportunities) != 0 {
		t.Errorf("opportunities = %d, want 0", len(rep.Opportunities))
	}
}

func TestExtractScore(t *testing.T) {
	cases := []struct {
		cell string
		want int
	}{
		{"🏆 92", 92},
		{"71", 71},
		{"-5", -5},
		{"n/a", 0},
		{"", 0},
	}
	for _, tc := range cases {
		if got := extractScore(tc.cell); got != tc.want {
			t.Errorf("extractScore(%q) = %d, want %d", tc.cell, got, tc.want)
		}
	}
}

func TestReadScanReportMissingFile(t *testing.T) {
	rep, err := ReadScanReport(filepath.Join(t.TempDir(), "nope.md"), testLogger())
	if err != nil {
		t.Fatalf("missing scan report should not error: %v", err)
	}
	if len(rep.Opportunities) != 0 || rep.Meta.ScanDate != "" {
		t.Error("missing scan report should yield a zero-value report")
	}
}

func TestReadScanReportFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "OPPORTUNITIES.md")
	if err := os.WriteFile(path, []byte(scanFixture), 0o644); err != nil {
		t.Fatal(err)
	}

	rep, err := ReadScanReport(path, testLogger())
	if err != nil {
		t.Fatalf("ReadScanReport: %v", err)
	}
	if len(rep.Opportunities) != 3 {
		t.Errorf("opportunities = %d, want 3", len(rep.Opportunities))
	}
}
