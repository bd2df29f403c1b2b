package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driving"
	"github.com/custodia-labs/wikisearch/internal/logger"
)

// Ensure SearchEngine implements the interface.
var _ driving.SearchEngine = (*SearchEngine)(nil)

// DefaultCallTimeout bounds each remote call when none is configured.
const DefaultCallTimeout = 30 * time.Second

// EngineConfig holds the tunables of a SearchEngine.
type EngineConfig struct {
	// Collection is the collection name. Empty uses the default.
	Collection string

	// Dimensions is the embedding size. Zero uses 768.
	Dimensions int

	// BatchSize is the number of texts per embedding request.
	BatchSize int

	// Timeout bounds every remote call. Zero uses DefaultCallTimeout.
	Timeout time.Duration
}

// SearchEngine indexes the corpus and answers hybrid queries.
type SearchEngine struct {
	corpus    driven.CorpusStore
	extractor driven.FragmentExtractor
	embedder  *EmbeddingClient
	store     driven.IndexStore
	index     *IndexManager
	timeout   time.Duration

	rebuildMu sync.Mutex
}

// NewSearchEngine wires the pipeline together.
func NewSearchEngine(
	corpus driven.CorpusStore,
	extractor driven.FragmentExtractor,
	embedding driven.EmbeddingService,
	store driven.IndexStore,
	cfg EngineConfig,
) *SearchEngine {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	schema := domain.DefaultCollectionSchema(cfg.Collection)
	if cfg.Dimensions > 0 {
		schema.Dimensions = cfg.Dimensions
	}

	return &SearchEngine{
		corpus:    corpus,
		extractor: extractor,
		embedder:  NewEmbeddingClient(embedding, schema.Dimensions, cfg.BatchSize, timeout),
		store:     store,
		index:     NewIndexManager(store, schema, timeout),
		timeout:   timeout,
	}
}

// Activate is called when the host enables the engine.
func (e *SearchEngine) Activate(_ context.Context) error {
	logger.Info("(search/qdrant) activated")
	return nil
}

// Deactivate is called when the host disables the engine.
func (e *SearchEngine) Deactivate(_ context.Context) error {
	logger.Info("(search/qdrant) deactivated")
	return nil
}

// Init makes sure the collection exists without touching its contents.
// An unreachable embedding provider is only reported as a warning.
func (e *SearchEngine) Init(ctx context.Context) error {
	logger.Section("Search Init")

	if err := e.embedder.Ping(ctx); err != nil {
		logger.Warn("(search/qdrant) embedding provider unreachable: %v", err)
	}

	if err := e.index.EnsureCollection(ctx); err != nil {
		logger.Error("(search/qdrant) init failed: %v", err)
		return fmt.Errorf("init: %w", err)
	}
	return nil
}

// State returns the last known lifecycle state of the collection.
func (e *SearchEngine) State() domain.IndexState {
	return e.index.State()
}

// Rebuild destroys the collection and indexes every indexable page again.
// Only one rebuild runs at a time; a concurrent call fails fast with
// domain.ErrRebuildInProgress.
func (e *SearchEngine) Rebuild(ctx context.Context) (*domain.RebuildStats, error) {
	if !e.rebuildMu.TryLock() {
		return nil, domain.ErrRebuildInProgress
	}
	defer e.rebuildMu.Unlock()

	logger.Section("Index Rebuild")
	started := time.Now()

	stats, err := e.rebuild(ctx)
	if err != nil {
		logger.Error("(search/qdrant) rebuild failed: %v", err)
		return nil, err
	}

	stats.Duration = time.Since(started)
	stats.State = e.index.State()
	logger.Info("(search/qdrant) rebuild complete: %s", stats)
	return stats, nil
}

func (e *SearchEngine) rebuild(ctx context.Context) (*domain.RebuildStats, error) {
	callCtx, cancel := withTimeout(ctx, e.timeout)
	docs, err := e.corpus.ListIndexableDocuments(callCtx)
	cancel()
	if err != nil {
		return nil, &domain.IndexBuildError{Step: domain.BuildStepCorpus, Err: err}
	}
	logger.Info("(search/qdrant) %d indexable documents", len(docs))

	var fragments []domain.Fragment
	for _, doc := range docs {
		docFragments, err := e.extractor.Extract(doc)
		if err != nil {
			return nil, &domain.IndexBuildError{
				Step: domain.BuildStepExtract,
				Err:  fmt.Errorf("%s: %w", doc.Path, err),
			}
		}
		fragments = append(fragments, docFragments...)
	}
	logger.Debug("(search/qdrant) %d fragments extracted", len(fragments))

	if err := e.index.Reset(ctx); err != nil {
		return nil, err
	}

	vectors, err := e.embedder.Embed(ctx, EmbeddingTexts(fragments))
	if err != nil {
		return nil, &domain.IndexBuildError{Step: domain.BuildStepEmbed, Err: err}
	}

	points := BuildDatapoints(fragments, vectors)
	if err := e.index.Populate(ctx, points); err != nil {
		return nil, err
	}

	return &domain.RebuildStats{
		Documents:  len(docs),
		Fragments:  len(fragments),
		Datapoints: len(points),
	}, nil
}

// Query runs the hybrid search: the query vector is matched against the
// index while the query text is matched against fragment and heading text,
// and both result lists are merged vector-first without duplicates.
//
// Failures never surface as errors: they are logged and reported through
// an unavailable response.
func (e *SearchEngine) Query(ctx context.Context, text string, opts domain.QueryOptions) domain.QueryResponse {
	logger.Section("Search Query")
	logger.Debug("Query: %q (path=%q, locale=%q)", text, opts.Path, opts.Locale)

	query := strings.TrimSpace(text)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return domain.NewQueryResponse(nil)
	}

	vector, err := e.embedder.EmbedQuery(ctx, query)
	if err != nil {
		logger.Error("(search/qdrant) query embedding failed: %v", err)
		return domain.UnavailableResponse(err)
	}

	vectorHits, textHits, err := e.search(ctx, query, vector)
	if err != nil {
		logger.Error("(search/qdrant) search failed: %v", err)
		return domain.UnavailableResponse(err)
	}

	merged := MergeUnique(vectorHits, textHits)
	logger.Debug("Merged %d vector + %d text hits into %d results",
		len(vectorHits), len(textHits), len(merged))

	return domain.NewQueryResponse(ProjectResults(merged))
}

// search runs the vector and text searches concurrently.
func (e *SearchEngine) search(
	ctx context.Context, query string, vector []float32,
) (vectorHits, textHits []domain.ScoredPoint, err error) {
	collection := e.index.Collection()

	var vectorErr, textErr error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		callCtx, cancel := withTimeout(ctx, e.timeout)
		defer cancel()
		vectorHits, vectorErr = e.store.SearchByVector(callCtx, collection, driven.VectorSearch{
			Vector: vector,
			Limit:  vectorSearchLimit,
			HNSWEf: vectorSearchEf,
		})
	}()

	go func() {
		defer wg.Done()
		callCtx, cancel := withTimeout(ctx, e.timeout)
		defer cancel()
		textHits, textErr = e.store.SearchByFilter(callCtx, collection, driven.FilterSearch{
			Vector: vector,
			Filter: textFilter(query),
			Limit:  textSearchLimit,
		})
	}()

	wg.Wait()

	if vectorErr != nil {
		vectorErr = &domain.VectorSearchError{Err: vectorErr}
	}
	if textErr != nil {
		textErr = &domain.TextSearchError{Err: textErr}
	}
	if joined := errors.Join(vectorErr, textErr); joined != nil {
		return nil, nil, joined
	}

	logger.Debug("Vector search: %d hits, text search: %d hits", len(vectorHits), len(textHits))
	return vectorHits, textHits, nil
}

// Created is a placeholder for incremental indexing.
func (e *SearchEngine) Created(_ context.Context, doc domain.Document) error {
	return e.notImplemented("created", doc)
}

// Updated is a placeholder for incremental indexing.
func (e *SearchEngine) Updated(_ context.Context, doc domain.Document) error {
	return e.notImplemented("updated", doc)
}

// Deleted is a placeholder for incremental indexing.
func (e *SearchEngine) Deleted(_ context.Context, doc domain.Document) error {
	return e.notImplemented("deleted", doc)
}

// Renamed is a placeholder for incremental indexing.
func (e *SearchEngine) Renamed(_ context.Context, doc domain.Document) error {
	return e.notImplemented("renamed", doc)
}

func (e *SearchEngine) notImplemented(hook string, doc domain.Document) error {
	logger.Warn("(search/qdrant) %s hook for %q ignored: run a rebuild to pick up the change", hook, doc.Path)
	return fmt.Errorf("%s hook: %w", hook, domain.ErrNotImplemented)
}
