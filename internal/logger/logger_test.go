package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("chatty", "development")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerParsesLevel(t *testing.T) {
	log := NewLogger("debug", "development")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestRunLoggerTradeEvaluated(t *testing.T) {
	log, buf := setupTestLogger()
	runLogger := NewRunLogger(log, "run-abc")

	runLogger.LogTradeEvaluated("AAPL", "2024-03-01", "2024-03-30", 4.2, true)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "run-abc", logEntry["run_id"])
	assert.Equal(t, "backtest", logEntry["component"])
	assert.Equal(t, "AAPL", logEntry["ticker"])
	assert.Equal(t, true, logEntry["won"])
}

func TestRunLoggerTradeSkipped(t *testing.T) {
	log, buf := setupTestLogger()
	runLogger := NewRunLogger(log, "run-abc")

	runLogger.LogTradeSkipped("TSLA", "2024-03-01", "exit price unresolved")

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "exit price unresolved", logEntry["reason"])
	assert.Equal(t, "warning", logEntry["level"])
}
