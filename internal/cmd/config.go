package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	appconfig "github.com/Iron-Ham/finboard/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect finboard configuration",
	Long: `Inspect finboard configuration.

Configuration is read from a YAML file and FINBOARD_* environment variables.
Run 'finboard config path' to see where the file is looked up.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintln(out, "# Config file: (none - using defaults)")
	}

	settings := viper.AllSettings()
	// The --config flag is bound to viper but is not a setting
	delete(settings, "config")

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := appconfig.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else if _, err := os.Stat(configFile); err != nil {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	} else {
		fmt.Fprintf(out, "Default path: %s\n", configFile)
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(appconfig.ConfigDir(), "config.yaml"))
	fmt.Fprintln(out, "  2. ./config.yaml (current directory)")
	fmt.Fprintln(out, "\nEnvironment variables: FINBOARD_* (e.g., FINBOARD_STARTUP_TIMEOUT_POLICY)")
	fmt.Fprintf(out, "Log directory: %s\n", rt.cfg.Logging.ResolveDir())
	fmt.Fprintf(out, "Data directory: %s\n", rt.cfg.Dashboard.ResolveDataDir())
	return nil
}
