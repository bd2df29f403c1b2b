package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is an in-memory implementation of driven.CorpusStore.
type CorpusStore struct {
	mu    sync.RWMutex
	pages map[string]domain.Document
}

// NewCorpusStore creates a new in-memory corpus holding the given pages.
func NewCorpusStore(pages ...domain.Document) *CorpusStore {
	s := &CorpusStore{
		pages: make(map[string]domain.Document, len(pages)),
	}
	for _, p := range pages {
		s.pages[p.Path] = p
	}
	return s
}

// ListIndexableDocuments returns published, non-private pages ordered by path.
func (s *CorpusStore) ListIndexableDocuments(_ context.Context) ([]domain.Document, error) {
	return s.list(domain.Document.IsIndexable), nil
}

// ListDocuments returns all pages ordered by path.
func (s *CorpusStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	return s.list(func(domain.Document) bool { return true }), nil
}

// GetDocument retrieves a page by path.
func (s *CorpusStore) GetDocument(_ context.Context, path string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.pages[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// SaveDocument stores or updates a page.
func (s *CorpusStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[doc.Path] = *doc
	return nil
}

// DeleteDocument removes a page.
func (s *CorpusStore) DeleteDocument(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pages[path]; !ok {
		return domain.ErrNotFound
	}
	delete(s.pages, path)
	return nil
}

// Close releases resources.
func (s *CorpusStore) Close() error {
	return nil
}

func (s *CorpusStore) list(keep func(domain.Document) bool) []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.pages))
	for _, doc := range s.pages {
		if keep(doc) {
			docs = append(docs, doc)
		}
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Path < docs[j].Path
	})
	return docs
}
