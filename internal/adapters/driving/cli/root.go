package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/wikisearch/internal/core/ports/driving"
	"github.com/custodia-labs/wikisearch/internal/logger"
)

// version is set by the composition root.
var version = "dev"

// Global flags.
var (
	verbose   bool
	configDir string
	dataDir   string
)

// Services used by the commands. Set through SetServices or the bootstrap.
var (
	searchEngine    driving.SearchEngine
	pageService     driving.PageService
	settingsService driving.SettingsService

	// searchErr explains why searchEngine is nil.
	searchErr error

	// corpusDir is the directory holding the corpus database.
	corpusDir string

	closeServices func() error
)

// ErrInMemoryIndex is returned by one-shot commands when the index lives in
// process memory and would be gone when the command exits.
var ErrInMemoryIndex = errors.New("index.backend is bleve, which keeps the index in memory")

// bootstrap builds the services from the global flags on first use.
var bootstrap Bootstrap

// Options carries the global flags to the bootstrap.
type Options struct {
	// ConfigDir overrides the config directory. Empty uses ~/.wikisearch.
	ConfigDir string

	// DataDir overrides the corpus directory. Empty uses the configured one.
	DataDir string
}

// Services groups the driving ports the commands talk to.
type Services struct {
	// Search is nil when the embedding provider or index is not configured.
	Search driving.SearchEngine

	// SearchErr is the reason Search is nil.
	SearchErr error

	Pages    driving.PageService
	Settings driving.SettingsService

	// DataDir is the resolved corpus directory.
	DataDir string

	// Close releases the underlying stores. May be nil.
	Close func() error
}

// Bootstrap builds the services for a command invocation.
type Bootstrap func(ctx context.Context, opts Options) (*Services, error)

var rootCmd = &cobra.Command{
	Use:   "wikisearch",
	Short: "Hybrid semantic and keyword search for wiki pages",
	Long: `wikisearch indexes rendered wiki pages into a vector store and answers
queries by combining a semantic similarity search with a keyword filter
search over page content and headings.

Configure an embedding provider and index backend with 'wikisearch settings',
then build the index with 'wikisearch rebuild'.`,
	SilenceUsage:      true,
	PersistentPreRunE: connect,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.wikisearch)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "corpus directory (default ~/.wikisearch/data)")
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects already-built services.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	searchEngine = s.Search
	searchErr = s.SearchErr
	pageService = s.Pages
	settingsService = s.Settings
	corpusDir = s.DataDir
	closeServices = s.Close
}

// Execute runs the root command and releases services afterwards.
func Execute(ctx context.Context) error {
	defer func() {
		if closeServices != nil {
			if err := closeServices(); err != nil {
				logger.Warn("closing services: %v", err)
			}
			closeServices = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func connect(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if bootstrap == nil {
		return nil
	}

	s, err := bootstrap(cmd.Context(), Options{ConfigDir: configDir, DataDir: dataDir})
	if err != nil {
		return fmt.Errorf("starting wikisearch: %w", err)
	}
	SetServices(s)
	return nil
}

// requireSearch returns the search engine or the reason it is missing.
func requireSearch() (driving.SearchEngine, error) {
	if searchEngine != nil {
		return searchEngine, nil
	}
	if searchErr != nil {
		return nil, fmt.Errorf("search engine not configured: %w\nRun 'wikisearch settings show' to check your configuration", searchErr)
	}
	return nil, errors.New("search engine not configured")
}

// requirePersistentIndex refuses one-shot commands whose work would be lost
// with an in-memory index. The tui and mcp serve commands keep the process
// alive and are not checked.
func requirePersistentIndex() error {
	if settingsService == nil {
		return nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.Index.Backend.IsRemote() {
		return nil
	}
	return fmt.Errorf("%w\nUse 'wikisearch tui' or 'wikisearch mcp serve', or switch to qdrant with 'wikisearch settings set index.backend qdrant'",
		ErrInMemoryIndex)
}
