package validation

import (
	"fmt"
	"strings"

	"github.com/kalondepeace/Celo-Faucet/pkg/config"
	"github.com/kalondepeace/Celo-Faucet/pkg/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap/zapcore"
)

// ValidationError represents a validation error with a specific field and message
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors holds multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	var errMsgs []string
	for _, err := range e {
		errMsgs = append(errMsgs, err.Error())
	}
	return strings.Join(errMsgs, "; ")
}

// SectionValidator checks one part of the configuration.
type SectionValidator interface {
	Validate(cfg *config.Schema) ValidationErrors
}

// ConfigValidator handles validation of the entire configuration
type ConfigValidator struct {
	validators []SectionValidator
}

// NewConfigValidator creates a ConfigValidator checking the chain, the
// contracts and the wallet source.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{
		validators: []SectionValidator{
			NewEthereumValidator(),
			NewContractsValidator(),
			NewWalletValidator(),
		},
	}
}

// ValidateConfig validates the entire configuration schema
func (v *ConfigValidator) ValidateConfig(cfg *config.Schema) error {
	var allErrors ValidationErrors

	if errs := v.validateGlobal(&cfg.Global); len(errs) > 0 {
		allErrors = append(allErrors, errs...)
	}

	for _, validator := range v.validators {
		if errs := validator.Validate(cfg); len(errs) > 0 {
			allErrors = append(allErrors, errs...)
		}
	}

	if len(allErrors) > 0 {
		return allErrors
	}
	return nil
}

// validateGlobal validates the global configuration
func (v *ConfigValidator) validateGlobal(global *config.Global) ValidationErrors {
	var errors ValidationErrors
	logger.Debugf("validating global config: %+v", *global)

	if global.ListenAddr == "" {
		errors = append(errors, ValidationError{
			Field:   "global.listenAddr",
			Message: "cannot be empty",
		})
	}

	if _, err := zapcore.ParseLevel(global.LogLevel); err != nil {
		errors = append(errors, ValidationError{
			Field:   "global.logLevel",
			Message: "must be one of: debug, info, warn, error",
		})
	}

	if global.RefreshSchedule != "" {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(global.RefreshSchedule); err != nil {
			errors = append(errors, ValidationError{
				Field:   "global.refreshSchedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errors
}
