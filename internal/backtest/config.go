package backtest

import (
	"fmt"
	"time"

	"github.com/yourusername/wallstreet-backtest/internal/config"
	"github.com/yourusername/wallstreet-backtest/internal/models"
)

// EngineConfig holds the evaluation parameters for one run. Today is an
// explicit input rather than a clock read so re-running with the same inputs
// and the same reference date reproduces the output byte for byte.
type EngineConfig struct {
	HoldDays        int
	MinAgeDays      int
	BenchmarkTicker string
	BuyActions      map[models.Action]bool
	Today           time.Time
	OutputPath      string
}

// FromConfig converts app config to engine config. today overrides the wall
// clock; pass time.Time{} to use the current date.
func FromConfig(cfg *config.BacktestConfig, today time.Time) (EngineConfig, error) {
	if cfg == nil {
		return EngineConfig{}, fmt.Errorf("backtest config is required")
	}
	if today.IsZero() {
		now := time.Now().UTC()
		today = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	buyActions := make(map[models.Action]bool, len(cfg.BuyActions))
	for _, a := range cfg.BuyActions {
		buyActions[models.Action(a).Normalize()] = true
	}
	if len(buyActions) == 0 {
		for a := range models.BuyActions() {
			buyActions[a] = true
		}
	}

	ec := EngineConfig{
		HoldDays:        cfg.HoldDays,
		MinAgeDays:      cfg.MinAgeDays,
		BenchmarkTicker: cfg.BenchmarkTicker,
		BuyActions:      buyActions,
		Today:           today,
		OutputPath:      cfg.OutputPath,
	}

	return ec, ec.Validate()
}

// Validate validates engine config parameters.
func (c EngineConfig) Validate() error {
	if c.HoldDays <= 0 {
		return fmt.Errorf("hold days must be positive")
	}
	if c.MinAgeDays <= 0 {
		return fmt.Errorf("minimum signal age must be positive")
	}
	if c.BenchmarkTicker == "" {
		return fmt.Errorf("benchmark ticker is required")
	}
	if len(c.BuyActions) == 0 {
		return fmt.Errorf("at least one buy action is required")
	}
	if c.Today.IsZero() {
		return fmt.Errorf("reference date is required")
	}
	return nil
}
