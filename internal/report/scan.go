package report

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/wallstreet-backtest/internal/metrics"
	"github.com/yourusername/wallstreet-backtest/internal/models"
)

// ScanMeta holds the scan report's metadata line fields.
type ScanMeta struct {
	ScanDate       string `json:"scan_date,omitempty"`
	ScanTime       string `json:"scan_time,omitempty"`
	Session        string `json:"session,omitempty"`
	Mode           string `json:"mode,omitempty"`
	TickersScanned int    `json:"tickers_scanned,omitempty"`
}

// MarketContext holds the labeled market-context table rows. Each value is
// absent when its row does not appear in the report.
type MarketContext struct {
	VIX          optional.Option[string] `json:"vix"`
	SectorHealth optional.Option[string] `json:"sector_health"`
	Sentiment    optional.Option[string] `json:"sentiment"`
}

// ScanCounters holds the summary counters. Each is absent when its labeled
// phrase does not appear in the report.
type ScanCounters struct {
	TotalScanned     optional.Option[int] `json:"total_scanned"`
	PassedFilters    optional.Option[int] `json:"passed_filters"`
	GoldenTrades     optional.Option[int] `json:"golden_trades"`
	ExplosiveSignals optional.Option[int] `json:"explosive_signals"`
	HighConfidence   optional.Option[int] `json:"high_confidence"`
}

// ScanReport is the parsed scan report.
type ScanReport struct {
	Meta          ScanMeta                   `json:"meta"`
	Context       MarketContext              `json:"context"`
	Counters      ScanCounters               `json:"counters"`
	Opportunities []models.OpportunityRecord `json:"opportunities"`
	MalformedRows int                        `json:"malformed_rows"`
}

var (
	scanMetaRe = regexp.MustCompile(
		`\*\*Scan Date:\*\*\s*(\S+)` +
			`[\s\S]*?\*\*Time:\*\*\s*(.+?)\s*\|` +
			`[\s\S]*?\*\*Session:\*\*\s*(.+?)\s*\|` +
			`[\s\S]*?\*\*Mode:\*\*\s*(\S+)` +
			`[\s\S]*?\*\*Tickers Scanned:\*\*\s*(\d+)`)

	tableRuleRe = regexp.MustCompile(`^\|\s*-+`)
	scoreRe     = regexp.MustCompile(`[^\d\-]`)
	emphasisRe  = regexp.MustCompile(`\*+`)
)

// ReadScanReport loads and parses the scan report. The report is optional
// context for the dashboard: a missing file yields an empty report, not an
// error.
func ReadScanReport(path string, logger logrus.FieldLogger) (*ScanReport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.WithField("path", path).Debug("Scan report not found, continuing without it")
			return &ScanReport{}, nil
		}
		return nil, err
	}
	rep := ParseScanReport(string(raw))
	logger.WithFields(logrus.Fields{
		"path":          path,
		"opportunities": len(rep.Opportunities),
		"malformed":     rep.MalformedRows,
	}).Info("Parsed scan report")
	return rep, nil
}

// ParseScanReport extracts the metadata line, market context rows, summary
// counters and the opportunity table from the scan report text. Every section
// is independently optional; a malformed table row excludes only that row.
func ParseScanReport(text string) *ScanReport {
	rep := &ScanReport{}

	if m := scanMetaRe.FindStringSubmatch(text); m != nil {
		rep.Meta.ScanDate = m[1]
		rep.Meta.ScanTime = strings.TrimSpace(m[2])
		rep.Meta.Session = strings.TrimSpace(m[3])
		rep.Meta.Mode = m[4]
		rep.Meta.TickersScanned, _ = strconv.Atoi(m[5])
	}

	rep.Context.VIX = contextRow(text, "VIX")
	rep.Context.SectorHealth = contextRow(text, "Sector Health")
	rep.Context.Sentiment = contextRow(text, "General Sentiment")

	rep.Counters.TotalScanned = counter(text, `Total scanned`)
	rep.Counters.PassedFilters = counter(text, `Passed filters`)
	rep.Counters.GoldenTrades = counter(text, `Golden Trades[^:]*`)
	rep.Counters.ExplosiveSignals = counter(text, `Explosive signals`)
	rep.Counters.HighConfidence = counter(text, `High-confidence buys`)

	rep.Opportunities, rep.MalformedRows = parseOpportunityTable(text)
	return rep
}

// contextRow extracts a `| Label | value |` market-context row.
func contextRow(text, label string) optional.Option[string] {
	re := regexp.MustCompile(`\|\s*` + regexp.QuoteMeta(label) + `\s*\|\s*(.+?)\s*\|`)
	if m := re.FindStringSubmatch(text); m != nil {
		return optional.Some(strings.TrimSpace(m[1]))
	}
	return optional.None[string]()
}

// counter extracts a `**Label:** N` summary counter. labelPattern is a regex
// fragment so suffixed labels still match.
func counter(text, labelPattern string) optional.Option[int] {
	re := regexp.MustCompile(`\*\*` + labelPattern + `:\*\*\s*(\d+)`)
	if m := re.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return optional.Some(n)
		}
	}
	return optional.None[int]()
}

// parseOpportunityTable walks the report line by line. It enters the table on
// the header row (identified by its Ticker and Sector ETF column labels),
// skips separator rules, and exits on the first line that is not a table row.
// Rows with fewer than 10 cells are dropped and counted.
func parseOpportunityTable(text string) ([]models.OpportunityRecord, int) {
	var rows []models.OpportunityRecord
	malformed := 0
	inTable := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "| Ticker |") && strings.Contains(line, "Sector ETF") {
			inTable = true
			continue
		}
		if !inTable {
			continue
		}
		if tableRuleRe.MatchString(line) {
			continue
		}
		if !strings.HasPrefix(line, "|") {
			inTable = false
			continue
		}

		cells := splitCells(line)
		if len(cells) < 10 {
			malformed++
			metrics.RecordReportRow("scan", "malformed")
			continue
		}

		rows = append(rows, models.OpportunityRecord{
			Ticker:           cells[0],
			SectorETF:        cells[1],
			Action:           models.Action(strings.TrimSpace(emphasisRe.ReplaceAllString(cells[2], ""))),
			Score:            extractScore(cells[3]),
			Certainty:        cells[4],
			EarningsSurprise: cells[5],
			RS1d:             cells[6],
			StopLoss:         cells[9],
		})
		metrics.RecordReportRow("scan", "ok")
	}
	return rows, malformed
}

// splitCells splits a markdown table row into trimmed cell values.
func splitCells(line string) []string {
	trimmed := strings.Trim(line, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// extractScore keeps digits and any minus sign, defaulting to 0 when nothing
// numeric survives.
func extractScore(cell string) int {
	raw := scoreRe.ReplaceAllString(cell, "")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
