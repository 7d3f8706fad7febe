package datasource

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
)

// PriceSource defines the interface for resolving historical closing prices
// from an external provider. Absence is a value, not an error: a lookup
// that cannot be satisfied (no credential, provider failure, no bar in the
// window) returns None and the caller skips the affected trade.
type PriceSource interface {
	// FetchClose returns the daily close of ticker on or just after target,
	// searching a fixed forward window to absorb weekends and holidays.
	FetchClose(ctx context.Context, ticker string, target time.Time) optional.Option[float64]

	// Name returns the name of the price source
	Name() string

	// IsEnabled returns whether this price source holds a credential
	IsEnabled() bool
}

// PriceBar represents one daily OHLC bar from the provider
type PriceBar struct {
	Timestamp int64   `json:"t"` // Unix millis of bar start
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
}

// DataSourceError represents errors from price source operations. These are
// logged and absorbed, never propagated to the pipeline.
type DataSourceError struct {
	Source  string // Price source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeMissingCredential    = "missing_credential"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// NewDataSourceError creates a new price source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
