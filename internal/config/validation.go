// Package config provides configuration management for the WallStreet backtest pipeline.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/wallstreet-backtest/internal/models"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)
	_ = v.RegisterValidation("buyactions", validateBuyActions)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateBuyActions checks the configured buy-class actions against the
// known action labels. Unknown labels are rejected: a typo here would
// silently exclude every signal from evaluation.
func validateBuyActions(fl validator.FieldLevel) bool {
	actions, ok := fl.Field().Interface().([]string)
	if !ok || len(actions) == 0 {
		return false
	}

	known := map[models.Action]bool{
		models.ActionBuy:          true,
		models.ActionExplosiveBuy: true,
		models.ActionGoldenTrade:  true,
		models.ActionWatch:        true,
		models.ActionSell:         true,
		models.ActionHold:         true,
	}

	for _, a := range actions {
		if !known[models.Action(a).Normalize()] {
			return false
		}
	}

	return true
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	if cfg.Backtest.MinAgeDays > cfg.Backtest.HoldDays*7/5 {
		return fmt.Errorf("min_age_days exceeds the approximate hold window; no signal could ever be evaluated")
	}

	if strings.TrimSpace(cfg.Backtest.BenchmarkTicker) == "" {
		return fmt.Errorf("benchmark_ticker must not be blank")
	}

	if cfg.IsProduction() && !cfg.Provider.HasCredentials() {
		return fmt.Errorf("production environment requires a provider API key")
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "buyactions":
			errMsg += fmt.Sprintf("- Field '%s' contains an unknown action label\n", field)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}

	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}
