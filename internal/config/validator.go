package config

import (
	"fmt"
	"net"
	"slices"
	"strings"

	"github.com/Iron-Ham/finboard/internal/tui/styles"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "startup.timeout_policy")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateStartup()...)
	errors = append(errors, c.validateAvailability()...)
	errors = append(errors, c.validateLogging()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateDashboard()...)

	return errors
}

// validateStartup validates the StartupConfig
func (c *Config) validateStartup() []ValidationError {
	var errors []ValidationError

	if c.Startup.DefaultTimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "startup.default_timeout_seconds",
			Value:   c.Startup.DefaultTimeoutSeconds,
			Message: "must be positive",
		})
	}

	// An hour is far beyond any sane start-up step
	const maxTimeoutSeconds = 3600
	if c.Startup.DefaultTimeoutSeconds > maxTimeoutSeconds {
		errors = append(errors, ValidationError{
			Field:   "startup.default_timeout_seconds",
			Value:   c.Startup.DefaultTimeoutSeconds,
			Message: fmt.Sprintf("exceeds maximum of %d seconds", maxTimeoutSeconds),
		})
	}

	if c.Startup.TimeoutPolicy != "" && !slices.Contains(ValidTimeoutPolicies(), c.Startup.TimeoutPolicy) {
		errors = append(errors, ValidationError{
			Field:   "startup.timeout_policy",
			Value:   c.Startup.TimeoutPolicy,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidTimeoutPolicies(), ", ")),
		})
	}

	return errors
}

// validateAvailability validates the AvailabilityConfig
func (c *Config) validateAvailability() []ValidationError {
	var errors []ValidationError

	const maxSuggestionsLimit = 20
	if c.Availability.MaxSuggestions < 1 || c.Availability.MaxSuggestions > maxSuggestionsLimit {
		errors = append(errors, ValidationError{
			Field:   "availability.max_suggestions",
			Value:   c.Availability.MaxSuggestions,
			Message: fmt.Sprintf("must be between 1 and %d", maxSuggestionsLimit),
		})
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	const maxLogSizeMB = 1000 // 1GB
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	// Custom themes must be discovered before validation to count as valid
	if c.TUI.Theme != "" && !styles.IsValidTheme(c.TUI.Theme) {
		errors = append(errors, ValidationError{
			Field:   "tui.theme",
			Value:   c.TUI.Theme,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(styles.ValidThemes(), ", ")),
		})
	}

	return errors
}

// validateDashboard validates the DashboardConfig
func (c *Config) validateDashboard() []ValidationError {
	var errors []ValidationError

	for i, sym := range c.Dashboard.Watchlist {
		if strings.TrimSpace(sym) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("dashboard.watchlist[%d]", i),
				Value:   sym,
				Message: "must not be empty",
			})
		}
	}

	if c.Dashboard.ProbeAddress != "" {
		if _, _, err := net.SplitHostPort(c.Dashboard.ProbeAddress); err != nil {
			errors = append(errors, ValidationError{
				Field:   "dashboard.probe_address",
				Value:   c.Dashboard.ProbeAddress,
				Message: "must be in host:port form",
			})
		}
	}

	return errors
}
