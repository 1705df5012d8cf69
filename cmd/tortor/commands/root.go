package commands

import (
	"fmt"
	"os"

	"github.com/bryanchriswhite/tortor/internal/config"
	"github.com/bryanchriswhite/tortor/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "tortor",
		Short: "tortor - periodic screenshots controlled by global hotkeys",
		Long: `tortor runs in the background and saves a timestamped screenshot of the
screen to a directory at a fixed interval.

Global hotkeys (defaults):
  • Alt+S  start capturing
  • Alt+P  pause or resume
  • Alt+Q  print a summary and quit

Files are named YYYY-MM-DD_HH-MM-SS.png. Two captures within the same
second overwrite each other.`,
		SilenceUsage: true,
	}
)

// overrides maps flag names to the configuration keys they replace
var overrides = map[string]string{
	"log-level":  "log_level",
	"log-format": "log_format",
	"output-dir": "output_dir",
	"backend":    "capture.backend",
	"display":    "capture.display",
	"interval":   "interval_seconds",
	"start-key":  "hotkeys.start",
	"pause-key":  "hotkeys.pause",
	"quit-key":   "hotkeys.quit",
	"notify":     "notify.desktop",
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/tortor/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (auto, pretty, json)")
	rootCmd.PersistentFlags().StringP("output-dir", "o", "", "directory screenshots are saved to (default is ./screenshots/)")
	rootCmd.PersistentFlags().String("backend", "", "capture backend (auto, screenshot, x11)")
	rootCmd.PersistentFlags().Int("display", 0, "display index to capture (0 = primary)")

	// Bind flags to viper
	for _, name := range []string{"log-level", "log-format", "output-dir", "backend", "display"} {
		viper.BindPFlag(overrides[name], rootCmd.PersistentFlags().Lookup(name))
	}
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// loadConfig reads the config file, applies flags the user set on cmd, and
// initializes logging from the result.
func loadConfig(cmd *cobra.Command) (*config.Manager, error) {
	configMgr, err := config.NewManager(GetConfigFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	for name, key := range overrides {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := configMgr.Override(key, viper.Get(key)); err != nil {
			return nil, fmt.Errorf("--%s: %w", name, err)
		}
	}

	cfg := configMgr.Get()
	logger.Init(cfg.LogLevel, logger.Format(cfg.LogFormat))
	logger.WithComponent("config").Debug().
		Str("path", configMgr.GetConfigPath()).
		Str("log_level", cfg.LogLevel).
		Msg("Configuration loaded")

	return configMgr, nil
}
