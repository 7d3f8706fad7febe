package report

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/wallstreet-backtest/internal/metrics"
)

// VerifiedResult is a row from the performance report's results table: a past
// signal whose outcome the report generator already verified.
type VerifiedResult struct {
	Ticker    string  `json:"ticker"`
	Date      string  `json:"date"`
	Action    string  `json:"action"`
	PctChange float64 `json:"pct_change"`
	Won       bool    `json:"won"`
}

// PerformanceReport is the parsed performance report.
type PerformanceReport struct {
	ReportDate    optional.Option[string] `json:"report_date"`
	DataPoints    optional.Option[int]    `json:"data_points"`
	WinRate       optional.Option[string] `json:"win_rate"`
	AvgReturn     optional.Option[string] `json:"avg_return"`
	Results       []VerifiedResult        `json:"results,omitempty"`
	MalformedRows int                     `json:"malformed_rows"`
}

var (
	perfMetaRe = regexp.MustCompile(
		`\*\*Report Date:\*\*\s*(\S+)[\s\S]*?\*\*Data Points:\*\*\s*(\d+)`)

	pctRe = regexp.MustCompile(`([+-]?[\d.]+)%`)
)

// ReadPerformanceReport loads and parses the performance report. Like the
// scan report it is optional: a missing file yields an empty report.
func ReadPerformanceReport(path string, logger logrus.FieldLogger) (*PerformanceReport, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.WithField("path", path).Debug("Performance report not found, continuing without it")
			return &PerformanceReport{}, nil
		}
		return nil, err
	}
	rep := ParsePerformanceReport(string(raw))
	logger.WithFields(logrus.Fields{
		"path":      path,
		"results":   len(rep.Results),
		"malformed": rep.MalformedRows,
	}).Info("Parsed performance report")
	return rep, nil
}

// ParsePerformanceReport extracts the metadata line, the headline metric rows
// and the verified results table from the performance report text.
func ParsePerformanceReport(text string) *PerformanceReport {
	rep := &PerformanceReport{}

	if m := perfMetaRe.FindStringSubmatch(text); m != nil {
		rep.ReportDate = optional.Some(m[1])
		if n, err := strconv.Atoi(m[2]); err == nil {
			rep.DataPoints = optional.Some(n)
		}
	}

	rep.WinRate = contextRow(text, "Win Rate")
	rep.AvgReturn = contextRow(text, "Average Return")

	rep.Results, rep.MalformedRows = parseResultsTable(text)
	return rep
}

// parseResultsTable extracts the verified results table. The header row is
// identified by its Ticker and Return column labels. Rows with fewer than 8
// cells are dropped and counted.
func parseResultsTable(text string) ([]VerifiedResult, int) {
	var rows []VerifiedResult
	malformed := 0
	inTable := false

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "| Ticker |") && strings.Contains(line, "Return") {
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
		if len(cells) < 8 {
			malformed++
			metrics.RecordReportRow("performance", "malformed")
			continue
		}

		rows = append(rows, VerifiedResult{
			Ticker:    cells[0],
			Date:      cells[1],
			Action:    strings.TrimSpace(emphasisRe.ReplaceAllString(cells[2], "")),
			PctChange: extractPct(cells[6]),
			Won:       isWin(cells[7]),
		})
		metrics.RecordReportRow("performance", "ok")
	}
	return rows, malformed
}

// extractPct pulls a signed percentage out of a cell like "+4.2%" or
// "🟢 +4.2%", defaulting to 0 when nothing matches.
func extractPct(cell string) float64 {
	m := pctRe.FindStringSubmatch(cell)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0
	}
	return v
}

// isWin interprets the win/loss flag cell.
func isWin(cell string) bool {
	upper := strings.ToUpper(strings.TrimSpace(cell))
	return strings.Contains(upper, "WIN") ||
		strings.Contains(cell, "✅") ||
		upper == "YES" || upper == "TRUE" || upper == "W"
}
