package driving

import (
	"context"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

// SearchEngine is the surface a wiki host drives: lifecycle hooks,
// full index rebuilds, queries and per-page change notifications.
type SearchEngine interface {
	// Activate is called when the host enables the engine.
	Activate(ctx context.Context) error

	// Deactivate is called when the host disables the engine.
	Deactivate(ctx context.Context) error

	// Init makes sure the collection exists. It never destroys data.
	Init(ctx context.Context) error

	// Rebuild destroys the collection and indexes the whole corpus again.
	// Returns domain.ErrRebuildInProgress if another rebuild is running.
	Rebuild(ctx context.Context) (*domain.RebuildStats, error)

	// Query runs a hybrid search. Backend failures are reported through
	// the response status, never as an error.
	Query(ctx context.Context, text string, opts domain.QueryOptions) domain.QueryResponse

	// State returns the last known lifecycle state of the collection.
	State() domain.IndexState

	// Created is called after a page is created.
	Created(ctx context.Context, doc domain.Document) error

	// Updated is called after a page is updated.
	Updated(ctx context.Context, doc domain.Document) error

	// Deleted is called after a page is deleted.
	Deleted(ctx context.Context, doc domain.Document) error

	// Renamed is called after a page is moved to a new path.
	Renamed(ctx context.Context, doc domain.Document) error
}
