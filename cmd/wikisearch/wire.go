package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/wikisearch/internal/adapters/driven/ai"
	"github.com/custodia-labs/wikisearch/internal/adapters/driven/config/file"
	"github.com/custodia-labs/wikisearch/internal/adapters/driven/index"
	"github.com/custodia-labs/wikisearch/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/wikisearch/internal/adapters/driving/cli"
	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
	"github.com/custodia-labs/wikisearch/internal/core/services"
	"github.com/custodia-labs/wikisearch/internal/logger"
	"github.com/custodia-labs/wikisearch/internal/normalisers/html"
)

// bootstrap is the composition root. Settings and pages always work;
// the search engine is only built when the embedding provider and the
// index backend are configured.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		var err error
		if configDir, err = file.DefaultConfigDir(); err != nil {
			return nil, err
		}
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = settings.Corpus.DataDir
	}
	if dataDir == "" {
		if dataDir, err = sqlite.DefaultDataDir(); err != nil {
			return nil, err
		}
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	corpus := store.CorpusStore()
	logger.Debug("(search/wire) corpus at %s", store.Path())

	out := &cli.Services{
		Pages:    services.NewPageService(corpus),
		Settings: settingsService,
		DataDir:  dataDir,
		Close:    corpus.Close,
	}

	engine, closeEngine, err := newSearchEngine(ctx, settings, corpus)
	if err != nil {
		logger.Debug("(search/wire) search engine disabled: %v", err)
		out.SearchErr = err
		return out, nil
	}

	out.Search = engine
	out.Close = func() error {
		return errors.Join(closeEngine(), corpus.Close())
	}
	return out, nil
}

// newSearchEngine builds the indexing and query pipeline from settings.
func newSearchEngine(
	ctx context.Context,
	settings *domain.AppSettings,
	corpus driven.CorpusStore,
) (*services.SearchEngine, func() error, error) {
	embedding, err := ai.CreateEmbeddingService(ctx, &settings.Embedding)
	if err != nil {
		return nil, nil, err
	}

	store, err := index.NewStore(&settings.Index)
	if err != nil {
		return nil, nil, errors.Join(err, embedding.Close())
	}

	engine := services.NewSearchEngine(corpus, html.New(), embedding, store, services.EngineConfig{
		Collection: settings.Index.Collection,
		Dimensions: embedding.Dimensions(),
		BatchSize:  settings.Embedding.BatchSize,
		Timeout:    time.Duration(settings.Index.TimeoutSeconds) * time.Second,
	})

	closeAll := func() error {
		return errors.Join(store.Close(), embedding.Close())
	}
	return engine, closeAll, nil
}
