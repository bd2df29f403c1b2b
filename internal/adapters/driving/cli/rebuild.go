package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikisearch/internal/adapters/driving/watch"
	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driving"
	"github.com/custodia-labs/wikisearch/internal/logger"
)

// corpusFiles are the database files whose changes trigger a rebuild in watch mode.
var corpusFiles = []string{"wiki.db", "wiki.db-wal"}

var (
	rebuildWatch    bool
	rebuildDebounce time.Duration
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the search index",
	Long: `Drops the search collection and indexes every published, public page again.

Pages are split into heading and content fragments, embedded in batches and
uploaded to the index. Searches return nothing while a rebuild runs.

With --watch, the corpus database is watched and the index is rebuilt after
each burst of changes until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

func init() {
	rebuildCmd.Flags().BoolVarP(&rebuildWatch, "watch", "w", false, "rebuild again whenever the corpus changes")
	rebuildCmd.Flags().DurationVar(&rebuildDebounce, "debounce", watch.DefaultDebounce, "quiet period before a watched rebuild")
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, _ []string) error {
	if err := requirePersistentIndex(); err != nil {
		return err
	}
	engine, err := requireSearch()
	if err != nil {
		return err
	}

	if err := rebuildOnce(cmd, engine); err != nil {
		return err
	}
	if !rebuildWatch {
		return nil
	}

	if corpusDir == "" {
		return errors.New("corpus directory unknown, cannot watch")
	}
	w, err := watch.New(corpusDir, corpusFiles, rebuildDebounce)
	if err != nil {
		return fmt.Errorf("failed to watch corpus: %w", err)
	}

	cmd.Printf("Watching %s for changes (Ctrl+C to stop)\n", corpusDir)
	return w.Run(cmd.Context(), func(context.Context) error {
		return rebuildOnce(cmd, engine)
	})
}

func rebuildOnce(cmd *cobra.Command, engine driving.SearchEngine) error {
	logger.Section("Rebuild")
	cmd.Println("Rebuilding index...")

	stats, err := engine.Rebuild(cmd.Context())
	if errors.Is(err, domain.ErrRebuildInProgress) {
		cmd.Println("A rebuild is already running, skipped.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}

	cmd.Printf("Indexed %s\n", stats)
	return nil
}
