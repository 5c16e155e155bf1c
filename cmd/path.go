package cmd

import (
	"copkg/coordinate"
	"copkg/logging"
	"copkg/staging"

	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path [group:artifact:version]",
	Short: "Show where a package is staged and installed",
	Example: `  # Show locations for a package
  copkg path com.acme:widget:1.2.0`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfiguration()
		if err != nil {
			return err
		}
		coord, err := coordinate.Parse(args[0])
		if err != nil {
			return err
		}

		output := CommandOutput{
			InstallDir:   cfg.PackageDirectoryForCoordinate(coord),
			DownloadFile: cfg.DownloadFilenameForCoordinate(coord),
			DownloadURL:  cfg.DownloadURLForCoordinate(coord),
		}

		metadata, err := staging.LoadMetadata(output.InstallDir)
		if err != nil {
			logging.LogWarn("⚠️ Unreadable metadata in %s: %v", output.InstallDir, err)
		}
		if metadata != nil {
			output.Installed = metadata.Filename
		}
		if jsonOutput {
			return OutputJSON(output)
		}

		logging.LogOutput("🔹 %s", coord)
		logging.LogOutput("  install dir:   %s", output.InstallDir)
		logging.LogOutput("  download file: %s", output.DownloadFile)
		logging.LogOutput("  download url:  %s", output.DownloadURL)
		if output.Installed != "" {
			logging.LogOutput("  ✅ installed:   %s", output.Installed)
		}
		return nil
	},
}
