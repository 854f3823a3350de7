package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete finboard configuration
type Config struct {
	Startup      StartupConfig      `mapstructure:"startup"`
	Availability AvailabilityConfig `mapstructure:"availability"`
	Logging      LoggingConfig      `mapstructure:"logging"`
	TUI          TUIConfig          `mapstructure:"tui"`
	Dashboard    DashboardConfig    `mapstructure:"dashboard"`
}

// StartupConfig controls the start-up tracker
type StartupConfig struct {
	// DefaultTimeoutSeconds applies to steps registered without a timeout (default: 30)
	DefaultTimeoutSeconds int `mapstructure:"default_timeout_seconds"`
	// TimeoutPolicy decides what a step timeout does (default: "fail")
	// Options: "fail" (the step fails, the run moves on), "log" (warn and keep waiting)
	TimeoutPolicy string `mapstructure:"timeout_policy"`
}

// AvailabilityConfig controls the data availability analyzer
type AvailabilityConfig struct {
	// MaxSuggestions caps symbol format suggestions (default: 5)
	MaxSuggestions int `mapstructure:"max_suggestions"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled controls whether file logging is enabled (default: true)
	Enabled bool `mapstructure:"enabled"`
	// Level is the log level: "debug", "info", "warn", "error" (default: "info")
	Level string `mapstructure:"level"`
	// Dir is where the log file is written. Empty means ConfigDir()/logs.
	Dir string `mapstructure:"dir"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation (default: 10)
	MaxSizeMB int `mapstructure:"max_size_mb"`
	// MaxBackups is the number of backup log files to keep (default: 3)
	MaxBackups int `mapstructure:"max_backups"`
	// Compress gzips rotated log files (default: false)
	Compress bool `mapstructure:"compress"`
}

// TUIConfig controls the terminal UI behavior
type TUIConfig struct {
	// Splash shows the animated start-up screen when stdout is a terminal (default: true)
	Splash bool `mapstructure:"splash"`
	// Theme is the color theme (default: "default")
	// Options: "default", "monokai", "dracula", "nord", or a custom theme name
	Theme string `mapstructure:"theme"`
}

// DashboardConfig controls what the start-up plan prepares
type DashboardConfig struct {
	// Watchlist is the list of symbols shown on the dashboard
	Watchlist []string `mapstructure:"watchlist"`
	// DataDir holds the symbol cache. Empty means ConfigDir()/data.
	DataDir string `mapstructure:"data_dir"`
	// ProbeAddress is the host:port dialed to check connectivity (default: "query1.finance.yahoo.com:443")
	ProbeAddress string `mapstructure:"probe_address"`
}

// DefaultWatchlist is the watchlist used when none is configured
var DefaultWatchlist = []string{"RELIANCE.NS", "NIFTYBEES.NS", "120503", "VOD.L", "INFY"}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Startup: StartupConfig{
			DefaultTimeoutSeconds: 30,
			TimeoutPolicy:         "fail",
		},
		Availability: AvailabilityConfig{
			MaxSuggestions: 5,
		},
		Logging: LoggingConfig{
			Enabled:    true,
			Level:      "info",
			Dir:        "",
			MaxSizeMB:  10,
			MaxBackups: 3,
			Compress:   false,
		},
		TUI: TUIConfig{
			Splash: true,
			Theme:  "default",
		},
		Dashboard: DashboardConfig{
			Watchlist:    append([]string(nil), DefaultWatchlist...),
			DataDir:      "",
			ProbeAddress: "query1.finance.yahoo.com:443",
		},
	}
}

// DefaultTimeout returns the step timeout as a time.Duration
func (c *StartupConfig) DefaultTimeout() time.Duration {
	return time.Duration(c.DefaultTimeoutSeconds) * time.Second
}

// ResolveDir returns the log directory, falling back to ConfigDir()/logs
func (c *LoggingConfig) ResolveDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return filepath.Join(ConfigDir(), "logs")
}

// ResolveDataDir returns the data directory, falling back to ConfigDir()/data
func (c *DashboardConfig) ResolveDataDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return filepath.Join(ConfigDir(), "data")
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Startup defaults
	viper.SetDefault("startup.default_timeout_seconds", defaults.Startup.DefaultTimeoutSeconds)
	viper.SetDefault("startup.timeout_policy", defaults.Startup.TimeoutPolicy)

	// Availability defaults
	viper.SetDefault("availability.max_suggestions", defaults.Availability.MaxSuggestions)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
	viper.SetDefault("logging.max_size_mb", defaults.Logging.MaxSizeMB)
	viper.SetDefault("logging.max_backups", defaults.Logging.MaxBackups)
	viper.SetDefault("logging.compress", defaults.Logging.Compress)

	// TUI defaults
	viper.SetDefault("tui.splash", defaults.TUI.Splash)
	viper.SetDefault("tui.theme", defaults.TUI.Theme)

	// Dashboard defaults
	viper.SetDefault("dashboard.watchlist", defaults.Dashboard.Watchlist)
	viper.SetDefault("dashboard.data_dir", defaults.Dashboard.DataDir)
	viper.SetDefault("dashboard.probe_address", defaults.Dashboard.ProbeAddress)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "finboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".finboard"
	}
	return filepath.Join(home, ".config", "finboard")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// ValidTimeoutPolicies returns the list of valid step timeout policies
func ValidTimeoutPolicies() []string {
	return []string{"fail", "log"}
}
