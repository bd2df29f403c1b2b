package driving

import (
	"context"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

// PageService manages pages in the local corpus.
type PageService interface {
	// List returns every page, indexable or not.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a page by path.
	Get(ctx context.Context, path string) (*domain.Document, error)

	// Save validates and stores a page.
	Save(ctx context.Context, doc *domain.Document) error

	// Delete removes a page.
	Delete(ctx context.Context, path string) error
}
