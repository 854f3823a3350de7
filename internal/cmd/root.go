// Package cmd implements the finboard command line.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/finboard/internal/config"
	"github.com/Iron-Ham/finboard/internal/errors"
	"github.com/Iron-Ham/finboard/internal/event"
	"github.com/Iron-Ham/finboard/internal/logging"
	"github.com/Iron-Ham/finboard/internal/tui/styles"
	"github.com/Iron-Ham/finboard/internal/tui/terminal"
)

var rootCmd = &cobra.Command{
	Use:   "finboard",
	Short: "Personal finance dashboard toolkit",
	Long: `finboard runs the dashboard's start-up plan and explains why market
data for a symbol is unavailable.

Symbols are classified as Indian stocks, ETFs and mutual funds or their
international counterparts, and each data category (real time, historical,
fees, ...) is checked against what that kind of security provides.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setupRuntime,
	PersistentPostRunE: teardownRuntime,
}

// app is the per-invocation state shared by subcommands.
type app struct {
	cfg         *config.Config
	logger      *logging.Logger
	bus         *event.Bus
	interactive bool
}

var rt *app

// configErr holds the config file read error from initConfig, which runs
// under cobra.OnInitialize and cannot return one.
var configErr error

// Execute runs the root command
func Execute() error {
	// PersistentPostRunE is skipped when a command fails
	defer teardownRuntime(rootCmd, nil)
	err := rootCmd.Execute()
	if err != nil {
		reportError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

// reportError prints err labeled and colored by its severity. Errors that
// are not meant for end users get a pointer to the debug log.
func reportError(w io.Writer, err error) {
	s := styles.Active()
	label := s.Severity(errors.GetSeverity(err).String()).Render("Error:")
	fmt.Fprintln(w, label, err.Error())
	if !errors.IsUserFacing(err) {
		fmt.Fprintln(w, s.Muted.Render("Run with --log-level debug for details."))
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/finboard/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("plain", false, "disable colors and animations")
}

func initConfig() {
	// Set defaults first so they're available even without a config file
	config.SetDefaults()
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("FINBOARD")
	// e.g., FINBOARD_STARTUP_TIMEOUT_POLICY for startup.timeout_policy
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// A missing config file is fine; a broken one is reported by setupRuntime
	configErr = nil
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			configErr = err
		}
	}
}

// setupRuntime loads and validates the configuration, opens the log file
// and applies the color theme.
func setupRuntime(cmd *cobra.Command, args []string) error {
	// Custom themes must be registered before tui.theme is validated
	_, themeErrs := styles.DiscoverCustomThemes()

	if configErr != nil {
		return errors.NewValidationError("cannot read config file").
			WithField("config").WithValue(viper.ConfigFileUsed()).WithCause(configErr)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		logger, err = logging.NewLoggerWithRotation(cfg.Logging.ResolveDir(), cfg.Logging.Level, logging.RotationConfig{
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			Compress:   cfg.Logging.Compress,
		})
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
	}
	for _, themeErr := range themeErrs {
		logger.Warn("custom theme skipped", "error", themeErr.Error())
	}

	plain, _ := cmd.Flags().GetBool("plain")
	interactive := terminal.Interactive(outFile(cmd), plain)
	terminal.ConfigureColor(interactive)
	styles.SetActiveTheme(styles.ThemeName(cfg.TUI.Theme))

	logger.Debug("finboard starting",
		"command", cmd.CommandPath(),
		"config_file", viper.ConfigFileUsed(),
		"interactive", interactive)

	rt = &app{
		cfg:         cfg,
		logger:      logger,
		bus:         event.NewBus(logger),
		interactive: interactive,
	}
	return nil
}

func teardownRuntime(cmd *cobra.Command, args []string) error {
	if rt == nil {
		return nil
	}
	err := rt.logger.Close()
	rt = nil
	return err
}

// outFile returns the command's output as a file when it is one, so terminal
// detection works on redirected output.
func outFile(cmd *cobra.Command) *os.File {
	if f, ok := cmd.OutOrStdout().(*os.File); ok {
		return f
	}
	return nil
}

// outWidth is the render width for cards and tables.
func outWidth(cmd *cobra.Command) int {
	if f := outFile(cmd); f != nil {
		return terminal.Width(f)
	}
	return terminal.DefaultWidth
}
