package cmd

import (
	"copkg/logging"
	"copkg/staging"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the download directory",
	Long: `Remove the download directory. Installed packages are not touched;
every staged or partial download is lost.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfiguration()
		if err != nil {
			return err
		}
		if err := staging.NewManager(cfg).Clean(); err != nil {
			return err
		}
		logging.LogInfo("✅ Removed %s", cfg.DownloadDir())
		return nil
	},
}
