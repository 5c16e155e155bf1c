package cmd

import (
	"copkg/config"
	"copkg/logging"
	"copkg/settings"
	"fmt"

	"github.com/spf13/cobra"
)

// Loaded client settings
var clientSettings *settings.Settings

// Global flags
var settingsFile string
var configFile string

// loadConfiguration reads and validates the package manager configuration
// Priority: CLI flag > COPKG_CONFIG_PATH env var > settings config_file
func loadConfiguration() (config.Configuration, error) {
	path, err := clientSettings.ConfigPath(configFile)
	if err != nil {
		return config.Configuration{}, err
	}

	logging.LogDebug("📂 Loading configuration from: %s", path)
	cfg, err := config.FromFile(path)
	if err != nil {
		return config.Configuration{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Configuration{}, err
	}

	logging.LogDebug("🔍 Loaded %s", cfg)
	return cfg, nil
}

// Root command
var rootCmd = &cobra.Command{
	Use:           "copkg",
	Short:         "copkg - package layout and repository configuration",
	Long:          `copkg manages the on-disk layout of versioned packages identified by group:artifact:version coordinates.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		clientSettings, err = settings.Load(settingsFile)
		if err != nil {
			return fmt.Errorf("failed to load settings: %w", err)
		}

		// Initialize logger with JSON format if requested
		useJSON := jsonLogs || clientSettings.General.JSONLogs
		if err := logging.InitLogger(clientSettings.General.LogPath, clientSettings.General.LogLevel, useJSON); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

func init() {
	logging.PreLog("DEBUG", "Initializing copkg...")

	// Add subcommands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(promoteCmd)
	rootCmd.AddCommand(discardCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(cleanCmd)

	// Add flags
	rootCmd.PersistentFlags().StringVarP(&settingsFile, "settings", "s", "", "Path to settings file (default: COPKG_SETTINGS_PATH or ./copkg.toml)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (default: COPKG_CONFIG_PATH or settings config_file)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Output logs in JSON format")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ExitWithError(err)
	}
	logging.Close()
}
