package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui"
	"github.com/custodia-labs/wikisearch/internal/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Opens a full-screen interface to search the wiki, browse the corpus
and trigger a rebuild (ctrl+r).`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	engine, err := requireSearch()
	if err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{
		Search:   engine,
		Pages:    pageService,
		Settings: settingsService,
	})
	if err != nil {
		return fmt.Errorf("failed to start tui: %w", err)
	}

	restore := silenceLogger()
	defer restore()
	return app.WithContext(cmd.Context()).Run()
}

// silenceLogger discards log output while the alternate screen is active
// and returns a func that restores the previous writer.
func silenceLogger() (restore func()) {
	prev := logger.Output()
	logger.SetOutput(io.Discard)
	return func() { logger.SetOutput(prev) }
}
