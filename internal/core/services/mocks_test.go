package services

import (
	"context"
	"sync"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Each text is embedded as a vector of dims copies of its length.
type mockEmbeddingService struct {
	mu       sync.Mutex
	dims     int
	embedErr error
	pingErr  error
	batches  [][]string

	// truncate drops the last vector of each batch.
	truncate bool
	// wrongDims returns vectors one element short.
	wrongDims bool
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batches = append(m.batches, append([]string(nil), texts...))
	m.mu.Unlock()

	if m.embedErr != nil {
		return nil, m.embedErr
	}

	size := m.Dimensions()
	if m.wrongDims {
		size--
	}

	result := make([][]float32, 0, len(texts))
	for _, text := range texts {
		v := make([]float32, size)
		for i := range v {
			v[i] = float32(len(text))
		}
		result = append(result, v)
	}
	if m.truncate && len(result) > 0 {
		result = result[:len(result)-1]
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return domain.DefaultDimensions
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return m.pingErr
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

func (m *mockEmbeddingService) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}

// mockIndexStore implements driven.IndexStore for testing.
// It records the order of mutating calls.
type mockIndexStore struct {
	mu sync.Mutex

	exists    bool
	deleteErr error
	createErr error
	indexErr  error
	uploadErr error
	existsErr error
	vectorErr error
	filterErr error

	vectorHits []domain.ScoredPoint
	filterHits []domain.ScoredPoint

	// filterDone, when set, is closed as SearchByFilter returns and
	// SearchByVector waits for it.
	filterDone chan struct{}

	ops          []string
	textIndexes  []domain.TextIndexConfig
	uploaded     []domain.Datapoint
	vectorReq    driven.VectorSearch
	filterReq    driven.FilterSearch
	schema       domain.CollectionSchema
	searchedName string
}

func (m *mockIndexStore) record(op string) {
	m.mu.Lock()
	m.ops = append(m.ops, op)
	m.mu.Unlock()
}

func (m *mockIndexStore) CreateCollection(_ context.Context, schema domain.CollectionSchema) error {
	m.record("create")
	if m.createErr != nil {
		return m.createErr
	}
	m.schema = schema
	m.exists = true
	return nil
}

func (m *mockIndexStore) DeleteCollection(_ context.Context, _ string) error {
	m.record("delete")
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.exists = false
	m.uploaded = nil
	return nil
}

func (m *mockIndexStore) CollectionExists(_ context.Context, _ string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	return m.exists, nil
}

func (m *mockIndexStore) CreateTextIndex(_ context.Context, _ string, cfg domain.TextIndexConfig) error {
	m.record("index:" + cfg.FieldName)
	if m.indexErr != nil {
		return m.indexErr
	}
	m.textIndexes = append(m.textIndexes, cfg)
	return nil
}

func (m *mockIndexStore) UploadPoints(_ context.Context, _ string, points []domain.Datapoint) error {
	m.record("upload")
	if m.uploadErr != nil {
		return m.uploadErr
	}
	m.uploaded = append(m.uploaded, points...)
	return nil
}

func (m *mockIndexStore) SearchByVector(
	ctx context.Context, collection string, req driven.VectorSearch,
) ([]domain.ScoredPoint, error) {
	if m.filterDone != nil {
		select {
		case <-m.filterDone:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.mu.Lock()
	m.vectorReq = req
	m.searchedName = collection
	m.mu.Unlock()
	if m.vectorErr != nil {
		return nil, m.vectorErr
	}
	return m.vectorHits, nil
}

func (m *mockIndexStore) SearchByFilter(
	_ context.Context, _ string, req driven.FilterSearch,
) ([]domain.ScoredPoint, error) {
	if m.filterDone != nil {
		defer close(m.filterDone)
	}
	m.mu.Lock()
	m.filterReq = req
	m.mu.Unlock()
	if m.filterErr != nil {
		return nil, m.filterErr
	}
	return m.filterHits, nil
}

func (m *mockIndexStore) Ping(_ context.Context) error {
	return nil
}

func (m *mockIndexStore) Close() error {
	return nil
}

func (m *mockIndexStore) calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ops...)
}

// mockCorpusStore implements driven.CorpusStore for testing.
type mockCorpusStore struct {
	docs    map[string]domain.Document
	listErr error
	saveErr error
}

func newMockCorpusStore(docs ...domain.Document) *mockCorpusStore {
	m := &mockCorpusStore{docs: make(map[string]domain.Document)}
	for _, d := range docs {
		m.docs[d.Path] = d
	}
	return m
}

func (m *mockCorpusStore) ListIndexableDocuments(ctx context.Context) ([]domain.Document, error) {
	all, err := m.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	var docs []domain.Document
	for _, d := range all {
		if d.IsIndexable() {
			docs = append(docs, d)
		}
	}
	return docs, nil
}

func (m *mockCorpusStore) ListDocuments(_ context.Context) ([]domain.Document, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	docs := make([]domain.Document, 0, len(m.docs))
	for _, d := range m.docs {
		docs = append(docs, d)
	}
	return docs, nil
}

func (m *mockCorpusStore) GetDocument(_ context.Context, path string) (*domain.Document, error) {
	d, ok := m.docs[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (m *mockCorpusStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[doc.Path] = *doc
	return nil
}

func (m *mockCorpusStore) DeleteDocument(_ context.Context, path string) error {
	if _, ok := m.docs[path]; !ok {
		return domain.ErrNotFound
	}
	delete(m.docs, path)
	return nil
}

func (m *mockCorpusStore) Close() error {
	return nil
}

// mockExtractor implements driven.FragmentExtractor for testing.
// Each page becomes one content fragment plus the sentinel.
type mockExtractor struct {
	err error
}

func (m *mockExtractor) Extract(doc domain.Document) ([]domain.Fragment, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []domain.Fragment{
		{
			ID:            "intro",
			Kind:          domain.FragmentKindContent,
			Tag:           "p",
			Text:          doc.Render,
			DocumentTitle: doc.Title,
			DocumentPath:  doc.Path,
		},
		domain.SentinelFragment(doc),
	}, nil
}

// --- Test helpers ---

func testDocuments() []domain.Document {
	return []domain.Document{
		{Path: "home", Title: "Home", Render: "Welcome", IsPublished: true},
		{Path: "guide", Title: "Guide", Render: "Install it", IsPublished: true},
		{Path: "draft", Title: "Draft", Render: "WIP", IsPublished: false},
		{Path: "secret", Title: "Secret", Render: "Hidden", IsPublished: true, IsPrivate: true},
	}
}

func contentHit(id, path, fragmentID, text string) domain.ScoredPoint {
	return domain.ScoredPoint{
		ID:    id,
		Score: 0.9,
		Payload: domain.Fragment{
			ID:            fragmentID,
			Kind:          domain.FragmentKindContent,
			Text:          text,
			DocumentTitle: "Doc",
			DocumentPath:  path,
		},
	}
}

func sentinelHit(id, path string) domain.ScoredPoint {
	return domain.ScoredPoint{
		ID:      id,
		Score:   0.5,
		Payload: domain.SentinelFragment(domain.Document{Path: path, Title: "Doc"}),
	}
}
