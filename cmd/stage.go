package cmd

import (
	"copkg/coordinate"
	"copkg/logging"
	"copkg/staging"
	"fmt"

	"github.com/spf13/cobra"
)

var stageSize int64

// stagingManager loads the configuration and parses the coordinate shared
// by the stage, promote and discard commands
func stagingManager(arg string) (*staging.Manager, coordinate.Coordinate, error) {
	cfg, err := loadConfiguration()
	if err != nil {
		return nil, coordinate.Coordinate{}, err
	}
	coord, err := coordinate.Parse(arg)
	if err != nil {
		return nil, coordinate.Coordinate{}, err
	}
	return staging.NewManager(cfg), coord, nil
}

var stageCmd = &cobra.Command{
	Use:   "stage [group:artifact:version]",
	Short: "Prepare the download location of a package",
	Long: `Prepare the download location of a package and print the file a fetcher
should write to. Once the download is complete, run 'copkg promote'.`,
	Example: `  copkg stage com.acme:widget:1.2.0 --size 10485760`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, coord, err := stagingManager(args[0])
		if err != nil {
			return err
		}

		target, err := manager.Prepare(coord, stageSize)
		if err != nil {
			return fmt.Errorf("failed to stage %s: %w", coord, err)
		}

		if jsonOutput {
			return OutputJSON(CommandOutput{DownloadFile: target})
		}
		logging.LogOutput("%s", target)
		return nil
	},
}

var promoteCmd = &cobra.Command{
	Use:   "promote [group:artifact:version]",
	Short: "Move a downloaded package into its install directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, coord, err := stagingManager(args[0])
		if err != nil {
			return err
		}

		installed, err := manager.Promote(coord)
		if err != nil {
			logging.LogError("❌ Promotion failed: %v", err)
			return fmt.Errorf("failed to promote %s: %w", coord, err)
		}

		if jsonOutput {
			return OutputJSON(CommandOutput{Installed: installed})
		}
		logging.LogOutput("📂 Installation path: %s", installed)
		return nil
	},
}

var discardCmd = &cobra.Command{
	Use:   "discard [group:artifact:version]",
	Short: "Remove a partially or fully downloaded package",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		manager, coord, err := stagingManager(args[0])
		if err != nil {
			return err
		}
		if err := manager.Discard(coord); err != nil {
			return err
		}
		logging.LogInfo("🧹 Discarded staged download of %s", coord)
		return nil
	},
}

func init() {
	stageCmd.Flags().Int64Var(&stageSize, "size", 0, "Expected download size in bytes, checked against free disk space")
}
