package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driving"
)

// Ensure PageService implements the interface.
var _ driving.PageService = (*PageService)(nil)

// PageService manages pages in the local corpus.
type PageService struct {
	corpus driven.CorpusStore
	now    func() time.Time
}

// NewPageService creates a new page service.
func NewPageService(corpus driven.CorpusStore) *PageService {
	return &PageService{
		corpus: corpus,
		now:    time.Now,
	}
}

// List returns every page, indexable or not.
func (s *PageService) List(ctx context.Context) ([]domain.Document, error) {
	if s.corpus == nil {
		return nil, domain.ErrCorpusUnavailable
	}
	return s.corpus.ListDocuments(ctx)
}

// Get retrieves a page by path.
func (s *PageService) Get(ctx context.Context, path string) (*domain.Document, error) {
	if s.corpus == nil {
		return nil, domain.ErrCorpusUnavailable
	}
	return s.corpus.GetDocument(ctx, normalisePath(path))
}

// Save validates and stores a page. The path is normalised and the
// locale defaults to "en".
func (s *PageService) Save(ctx context.Context, doc *domain.Document) error {
	if s.corpus == nil {
		return domain.ErrCorpusUnavailable
	}
	if doc == nil {
		return fmt.Errorf("%w: nil page", domain.ErrInvalidInput)
	}

	doc.Path = normalisePath(doc.Path)
	if doc.Path == "" {
		return fmt.Errorf("%w: page path is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(doc.Title) == "" {
		return fmt.Errorf("%w: page title is required", domain.ErrInvalidInput)
	}
	if doc.LocaleCode == "" {
		doc.LocaleCode = domain.DefaultLocale
	}
	doc.UpdatedAt = s.now()

	return s.corpus.SaveDocument(ctx, doc)
}

// Delete removes a page.
func (s *PageService) Delete(ctx context.Context, path string) error {
	if s.corpus == nil {
		return domain.ErrCorpusUnavailable
	}
	return s.corpus.DeleteDocument(ctx, normalisePath(path))
}

// normalisePath trims whitespace and surrounding slashes.
func normalisePath(path string) string {
	return strings.Trim(strings.TrimSpace(path), "/")
}
