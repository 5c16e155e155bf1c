package cmd

import (
	"copkg/config"
	"copkg/logging"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	initUsername string
	initPassword string
	initForce    bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or display the package manager configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init [packageDir] [packageBaseUrl]",
	Short: "Write a new configuration file",
	Long: `Write a new configuration file. For example:
	copkg config init /srv/packages https://repo.example.com/packages --username deploy

Credentials are only stored when the matching flag is given; an empty
--password "" is stored as an empty password, not as an absent one.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		username := config.None()
		if cmd.Flags().Changed("username") {
			username = config.Some(initUsername)
		}
		password := config.None()
		if cmd.Flags().Changed("password") {
			password = config.Some(initPassword)
		}

		cfg := config.New(args[0], args[1], username, password)
		if err := cfg.Validate(); err != nil {
			return err
		}

		path, err := clientSettings.ConfigPath(configFile)
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("configuration %s already exists, use --force to overwrite", path)
		}

		if err := cfg.WriteFile(path); err != nil {
			return fmt.Errorf("failed to write configuration: %w", err)
		}

		logging.LogInfo("✅ Configuration written to %s", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfiguration()
		if err != nil {
			return err
		}

		text, err := cfg.ToJSON()
		if err != nil {
			return err
		}

		if jsonOutput {
			logging.LogOutput("%s", text)
			return nil
		}

		logging.LogOutput("%s", text)
		logging.LogOutput("\n📂 Download directory: %s", cfg.DownloadDir())
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVarP(&initUsername, "username", "u", "", "Username for the package repository")
	configInitCmd.Flags().StringVarP(&initPassword, "password", "p", "", "Password for the package repository")
	configInitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
