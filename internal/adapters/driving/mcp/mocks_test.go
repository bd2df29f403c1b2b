package mcp

import (
	"context"
	"errors"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driving"
)

var _ driving.SearchEngine = (*mockSearchEngine)(nil)
var _ driving.PageService = (*mockPageService)(nil)

// mockSearchEngine is a mock implementation of driving.SearchEngine.
type mockSearchEngine struct {
	response   domain.QueryResponse
	stats      *domain.RebuildStats
	rebuildErr error
	lastQuery  string
	lastOpts   domain.QueryOptions
	activated  bool
}

func (m *mockSearchEngine) Activate(context.Context) error {
	m.activated = true
	return nil
}

func (m *mockSearchEngine) Deactivate(context.Context) error {
	m.activated = false
	return nil
}

func (m *mockSearchEngine) Init(context.Context) error { return nil }

func (m *mockSearchEngine) Rebuild(context.Context) (*domain.RebuildStats, error) {
	return m.stats, m.rebuildErr
}

func (m *mockSearchEngine) Query(_ context.Context, text string, opts domain.QueryOptions) domain.QueryResponse {
	m.lastQuery = text
	m.lastOpts = opts
	return m.response
}

func (m *mockSearchEngine) State() domain.IndexState { return domain.IndexStateUnknown }

func (m *mockSearchEngine) Created(context.Context, domain.Document) error { return nil }

func (m *mockSearchEngine) Updated(context.Context, domain.Document) error { return nil }

func (m *mockSearchEngine) Deleted(context.Context, domain.Document) error { return nil }

func (m *mockSearchEngine) Renamed(context.Context, domain.Document) error { return nil }

// mockPageService is a mock implementation of driving.PageService.
type mockPageService struct {
	pages []domain.Document
	err   error
}

func (m *mockPageService) List(context.Context) ([]domain.Document, error) {
	return m.pages, m.err
}

func (m *mockPageService) Get(_ context.Context, path string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.pages {
		if m.pages[i].Path == path {
			return &m.pages[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockPageService) Save(context.Context, *domain.Document) error {
	return errors.New("read only")
}

func (m *mockPageService) Delete(context.Context, string) error {
	return errors.New("read only")
}
