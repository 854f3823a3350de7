package config

import (
	"strings"
	"testing"

	"github.com/Iron-Ham/finboard/internal/tui/styles"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "test.field",
		Value:   123,
		Message: "must be greater than zero",
	}

	expected := "test.field: must be greater than zero (got: 123)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "test.field", Value: 123, Message: "is invalid"},
		}
		expected := "test.field: is invalid (got: 123)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "a", Value: 1, Message: "bad"},
			{Field: "b", Value: 2, Message: "worse"},
		}
		got := errs.Error()
		if !strings.HasPrefix(got, "2 validation errors:\n") {
			t.Errorf("Error() = %q", got)
		}
		if !strings.Contains(got, "  1. a: bad (got: 1)") || !strings.Contains(got, "  2. b: worse (got: 2)") {
			t.Errorf("Error() = %q", got)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		fields []string
	}{
		{"defaults", func(*Config) {}, nil},
		{"zero timeout", func(c *Config) { c.Startup.DefaultTimeoutSeconds = 0 }, []string{"startup.default_timeout_seconds"}},
		{"huge timeout", func(c *Config) { c.Startup.DefaultTimeoutSeconds = 7200 }, []string{"startup.default_timeout_seconds"}},
		{"bad policy", func(c *Config) { c.Startup.TimeoutPolicy = "retry" }, []string{"startup.timeout_policy"}},
		{"empty policy", func(c *Config) { c.Startup.TimeoutPolicy = "" }, nil},
		{"no suggestions", func(c *Config) { c.Availability.MaxSuggestions = 0 }, []string{"availability.max_suggestions"}},
		{"too many suggestions", func(c *Config) { c.Availability.MaxSuggestions = 50 }, []string{"availability.max_suggestions"}},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, []string{"logging.level"}},
		{"zero log size", func(c *Config) { c.Logging.MaxSizeMB = 0 }, []string{"logging.max_size_mb"}},
		{"huge log size", func(c *Config) { c.Logging.MaxSizeMB = 5000 }, []string{"logging.max_size_mb"}},
		{"negative backups", func(c *Config) { c.Logging.MaxBackups = -1 }, []string{"logging.max_backups"}},
		{"unknown theme", func(c *Config) { c.TUI.Theme = "neon" }, []string{"tui.theme"}},
		{"builtin theme", func(c *Config) { c.TUI.Theme = "dracula" }, nil},
		{"blank watchlist entry", func(c *Config) { c.Dashboard.Watchlist = []string{"INFY", " "} }, []string{"dashboard.watchlist[1]"}},
		{"empty watchlist", func(c *Config) { c.Dashboard.Watchlist = nil }, nil},
		{"probe without port", func(c *Config) { c.Dashboard.ProbeAddress = "example.com" }, []string{"dashboard.probe_address"}},
		{"probe disabled", func(c *Config) { c.Dashboard.ProbeAddress = "" }, nil},
		{"several", func(c *Config) {
			c.Startup.TimeoutPolicy = "retry"
			c.Logging.Level = "trace"
		}, []string{"startup.timeout_policy", "logging.level"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			errs := cfg.Validate()
			if len(errs) != len(tt.fields) {
				t.Fatalf("Validate() = %v, want fields %v", errs, tt.fields)
			}
			for i, field := range tt.fields {
				if errs[i].Field != field {
					t.Errorf("errs[%d].Field = %q, want %q", i, errs[i].Field, field)
				}
			}
		})
	}
}

func TestValidate_CustomTheme(t *testing.T) {
	styles.ClearCustomThemes()
	defer styles.ClearCustomThemes()

	cfg := Default()
	cfg.TUI.Theme = "ocean"
	if errs := cfg.Validate(); len(errs) != 1 {
		t.Fatalf("unregistered theme should fail, got %v", errs)
	}

	styles.RegisterCustomTheme("ocean", &styles.ThemeFile{Name: "Ocean", Version: "1"})
	if errs := cfg.Validate(); len(errs) != 0 {
		t.Errorf("registered custom theme should pass, got %v", errs)
	}
}
