package driven

import (
	"context"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

// CorpusStore provides the rendered pages to index.
// Backed by SQLite for local wikis.
type CorpusStore interface {
	// ListIndexableDocuments returns every published, non-private page,
	// ordered by path.
	ListIndexableDocuments(ctx context.Context) ([]domain.Document, error)

	// ListDocuments returns all pages, including drafts and private ones.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// GetDocument retrieves a page by path.
	// Returns domain.ErrNotFound if the page does not exist.
	GetDocument(ctx context.Context, path string) (*domain.Document, error)

	// SaveDocument stores or updates a page.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// DeleteDocument removes a page.
	DeleteDocument(ctx context.Context, path string) error

	// Close releases resources.
	Close() error
}
