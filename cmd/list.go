package cmd

import (
	"copkg/coordinate"
	"copkg/logging"
	"copkg/staging"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list [group:artifact]",
	Short:   "List installed versions of a package",
	Example: `  copkg list com.acme:widget`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfiguration()
		if err != nil {
			return err
		}
		group, artifact, err := coordinate.ParsePackage(args[0])
		if err != nil {
			return err
		}

		installed, err := staging.NewManager(cfg).Installed(group, artifact)
		if err != nil {
			return err
		}

		var versions []string
		for _, c := range installed {
			versions = append(versions, c.Version)
		}

		if jsonOutput {
			return OutputJSON(CommandOutput{Versions: versions})
		}

		if len(versions) == 0 {
			logging.LogOutput("ℹ️  No installed versions of %s:%s", group, artifact)
			return nil
		}
		logging.LogOutput("🔹 Installed versions of %s:%s:", group, artifact)
		for _, v := range versions {
			logging.LogOutput("    ✅ %s", v)
		}
		return nil
	},
}
