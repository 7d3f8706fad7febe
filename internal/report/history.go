// Package report parses the scanner's semi-structured outputs: the append-only
// JSON event log plus the markdown scan and performance reports. Parsing is
// deliberately forgiving because upstream report generation is not versioned;
// only the event log is mandatory.
package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/wallstreet-backtest/internal/metrics"
	"github.com/yourusername/wallstreet-backtest/internal/models"
)

// LoadHistory reads the scanner event log. A missing or unreadable file is an
// error: the event log is the only historical record and nothing downstream
// can run without it. Records with an unparsable date are dropped and counted;
// all other malformed fields have already been coerced during decoding.
func LoadHistory(path string, logger logrus.FieldLogger) ([]models.SignalRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event log %s: %w", path, err)
	}

	var records []models.SignalRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode event log %s: %w", path, err)
	}

	kept := records[:0]
	dropped := 0
	for _, rec := range records {
		if rec.Date.IsZero() {
			dropped++
			metrics.RecordSignalDropped("invalid_date")
			continue
		}
		kept = append(kept, rec)
		metrics.RecordSignalLoaded()
	}

	if dropped > 0 {
		logger.WithFields(logrus.Fields{
			"path":    path,
			"dropped": dropped,
		}).Warn("Dropped event log records with unparsable dates")
	}
	logger.WithFields(logrus.Fields{
		"path":    path,
		"records": len(kept),
	}).Info("Loaded event log")

	return kept, nil
}
