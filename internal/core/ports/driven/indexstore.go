package driven

import (
	"context"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

// IndexStore stores datapoints and answers vector and text searches.
//
// Implementations include a remote Qdrant server and an embedded,
// in-memory Bleve index.
type IndexStore interface {
	// CreateCollection creates an empty collection.
	// Returns domain.ErrAlreadyExists if it is already present.
	CreateCollection(ctx context.Context, schema domain.CollectionSchema) error

	// DeleteCollection removes a collection and every datapoint in it.
	// Returns domain.ErrNotFound if the collection does not exist.
	DeleteCollection(ctx context.Context, name string) error

	// CollectionExists reports whether the collection is present.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// CreateTextIndex configures a full-text index on one payload field.
	CreateTextIndex(ctx context.Context, collection string, cfg domain.TextIndexConfig) error

	// UploadPoints stores datapoints in the collection.
	UploadPoints(ctx context.Context, collection string, points []domain.Datapoint) error

	// SearchByVector returns the nearest datapoints to the query vector.
	SearchByVector(ctx context.Context, collection string, req VectorSearch) ([]domain.ScoredPoint, error)

	// SearchByFilter returns datapoints whose payload matches the text filter.
	SearchByFilter(ctx context.Context, collection string, req FilterSearch) ([]domain.ScoredPoint, error)

	// Ping checks the store is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// VectorSearch is an unfiltered nearest-neighbour search.
type VectorSearch struct {
	// Vector is the query embedding.
	Vector []float32

	// Limit is the number of hits to return.
	Limit int

	// HNSWEf is the search-time beam width. Zero uses the store default.
	HNSWEf int
}

// TextMatch matches a payload field against free text.
type TextMatch struct {
	Field string
	Text  string
}

// TextFilter is a disjunction: a point matches when any condition matches.
type TextFilter struct {
	Should []TextMatch
}

// FilterSearch is a text-filtered search.
// Vector orders the filtered hits when the store supports it.
type FilterSearch struct {
	Vector []float32
	Filter TextFilter
	Limit  int
}
