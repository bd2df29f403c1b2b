package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the search collection",
	Long: `Creates the search collection and its text index if they do not exist yet.
Existing collections are left untouched. Use 'wikisearch rebuild' to index pages.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	engine, err := requireSearch()
	if err != nil {
		return err
	}

	if err := engine.Init(cmd.Context()); err != nil {
		return fmt.Errorf("failed to initialise collection: %w", err)
	}

	cmd.Printf("Collection ready (state: %s)\n", engine.State())
	return nil
}
