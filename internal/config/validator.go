package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/tungetti/wizardnav/internal/errors"
	"github.com/tungetti/wizardnav/internal/logging"
	"github.com/tungetti/wizardnav/internal/scenario"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation: %s: %s", e.Field, e.Message)
}

// Validator validates configuration.
type Validator struct{}

// NewValidator creates a new validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the configuration and returns all errors.
// This allows collecting all validation errors at once rather than
// failing on the first error.
func (v *Validator) Validate(cfg *Config) []error {
	var errs []error
	add := func(field, format string, args ...interface{}) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if !logging.IsValidLevel(cfg.LogLevel) {
		add("log_level", "invalid log level %q: must be one of: debug, info, warn, error", cfg.LogLevel)
	}

	if cfg.Verbose && cfg.Quiet {
		add("verbose/quiet", "verbose and quiet cannot both be true")
	}

	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if dir != "" && dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				add("log_file", "directory does not exist: %s", dir)
			}
		}
	}

	// A topology file replaces the built-in scenarios.
	if cfg.TopologyFile == "" && !scenario.IsKnown(cfg.Scenario) {
		add("scenario", "unknown scenario %q: must be one of: %s",
			cfg.Scenario, strings.Join(scenario.Names(), ", "))
	}

	for i, s := range cfg.HiddenSteps {
		if strings.TrimSpace(s) == "" {
			add("hidden_steps", "entry %d is empty", i)
		}
	}

	if cfg.Browser.BaseURL == "" {
		add("browser.base_url", "base URL cannot be empty")
	} else if u, err := url.Parse(cfg.Browser.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		add("browser.base_url", "invalid URL %q", cfg.Browser.BaseURL)
	}

	if cfg.Browser.WaitTimeout <= 0 {
		add("browser.wait_timeout", "wait timeout must be positive")
	}
	if cfg.Browser.SettleTimeout <= 0 {
		add("browser.settle_timeout", "settle timeout must be positive")
	}
	if cfg.Browser.PollInterval <= 0 {
		add("browser.poll_interval", "poll interval must be positive")
	} else if cfg.Browser.PollInterval > cfg.Browser.WaitTimeout && cfg.Browser.WaitTimeout > 0 {
		add("browser.poll_interval", "poll interval %s exceeds wait timeout %s",
			cfg.Browser.PollInterval, cfg.Browser.WaitTimeout)
	}

	if cfg.Account.UserName == "" {
		add("account.user_name", "user name cannot be empty")
	}

	if cfg.LockDir == "" {
		add("lock_dir", "lock directory cannot be empty")
	}

	return errs
}

// ValidateOrError validates and returns a single wrapped error.
// If there are no validation errors, nil is returned.
func (v *Validator) ValidateOrError(cfg *Config) error {
	errs := v.Validate(cfg)
	if len(errs) == 0 {
		return nil
	}

	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}

	return errors.New(errors.Configuration, strings.Join(msgs, "; ")).
		WithOp("config.Validate")
}

// IsValid returns true if the configuration is valid.
func (v *Validator) IsValid(cfg *Config) bool {
	return len(v.Validate(cfg)) == 0
}
