package cli

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	// Overrides the root hook so printing the version never touches config.
	PersistentPreRun: func(*cobra.Command, []string) {},
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("wikisearch version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
