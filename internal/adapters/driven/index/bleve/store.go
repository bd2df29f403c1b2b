// Package bleve implements driven.IndexStore in memory.
// Vectors are scored by brute force; text filters run against a mem-only
// Bleve index whose analyzer emits lowercase word prefixes.
package bleve

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/edgengram"
	"github.com/blevesearch/bleve/v2/analysis/token/length"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/truncate"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Analyzer names registered on every collection mapping.
const (
	prefixAnalyzer = "wiki_prefix"
	queryAnalyzer  = "wiki_query"
	prefixFilter   = "wiki_prefix_ngram"
	minLenFilter   = "wiki_min_len"
	truncateFilter = "wiki_truncate"
)

// textFields are the payload fields mapped in every collection.
var textFields = []string{domain.FieldContent, domain.FieldPageTitle, domain.FieldHeaderContent}

type collection struct {
	schema domain.CollectionSchema
	index  bleve.Index
	points []domain.Datapoint
	byID   map[string]int
}

// Store keeps collections in process memory.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{collections: make(map[string]*collection)}
}

// newMapping builds a mapping whose text fields are indexed as word
// prefixes of 2 to 20 characters. Query words shorter than the minimum are
// dropped and longer ones are cut to the maximum, so every remaining word
// can hit an indexed prefix.
func newMapping() (*mapping.IndexMappingImpl, error) {
	im := bleve.NewIndexMapping()

	cfg := domain.FullTextIndexConfig("")
	err := im.AddCustomTokenFilter(prefixFilter, map[string]any{
		"type": edgengram.Name,
		"back": false,
		"min":  float64(cfg.MinTokenLen),
		"max":  float64(cfg.MaxTokenLen),
	})
	if err != nil {
		return nil, fmt.Errorf("define prefix filter: %w", err)
	}
	err = im.AddCustomTokenFilter(minLenFilter, map[string]any{
		"type": length.Name,
		"min":  float64(cfg.MinTokenLen),
	})
	if err != nil {
		return nil, fmt.Errorf("define length filter: %w", err)
	}
	err = im.AddCustomTokenFilter(truncateFilter, map[string]any{
		"type":   truncate.Name,
		"length": float64(cfg.MaxTokenLen),
	})
	if err != nil {
		return nil, fmt.Errorf("define truncate filter: %w", err)
	}
	err = im.AddCustomAnalyzer(prefixAnalyzer, map[string]any{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name, prefixFilter},
	})
	if err != nil {
		return nil, fmt.Errorf("define prefix analyzer: %w", err)
	}
	err = im.AddCustomAnalyzer(queryAnalyzer, map[string]any{
		"type":          custom.Name,
		"tokenizer":     unicode.Name,
		"token_filters": []string{lowercase.Name, minLenFilter, truncateFilter},
	})
	if err != nil {
		return nil, fmt.Errorf("define query analyzer: %w", err)
	}

	doc := bleve.NewDocumentStaticMapping()
	for _, field := range textFields {
		fm := bleve.NewTextFieldMapping()
		fm.Analyzer = prefixAnalyzer
		fm.Store = false
		fm.IncludeTermVectors = false
		doc.AddFieldMappingsAt(field, fm)
	}
	im.DefaultMapping = doc
	return im, nil
}

// CreateCollection creates an empty collection.
func (s *Store) CreateCollection(_ context.Context, schema domain.CollectionSchema) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.collections[schema.Name]; ok {
		return fmt.Errorf("collection %s: %w", schema.Name, domain.ErrAlreadyExists)
	}

	im, err := newMapping()
	if err != nil {
		return err
	}
	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	s.collections[schema.Name] = &collection{
		schema: schema,
		index:  index,
		byID:   make(map[string]int),
	}
	return nil
}

// DeleteCollection removes a collection.
func (s *Store) DeleteCollection(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		return fmt.Errorf("collection %s: %w", name, domain.ErrNotFound)
	}
	delete(s.collections, name)
	return c.index.Close()
}

// CollectionExists reports whether the collection is present.
func (s *Store) CollectionExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.collections[name]
	return ok, nil
}

// CreateTextIndex validates a text index request. Every mapped field is
// already indexed when its collection is created, so nothing is stored.
// Only the prefix tokenizer is supported.
func (s *Store) CreateTextIndex(_ context.Context, name string, cfg domain.TextIndexConfig) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.get(name); err != nil {
		return err
	}
	if cfg.Tokenizer != domain.TokenizerPrefix {
		return fmt.Errorf("tokenizer %q: %w", cfg.Tokenizer, domain.ErrUnsupportedType)
	}
	if !slices.Contains(textFields, cfg.FieldName) {
		return fmt.Errorf("field %q is not mapped: %w", cfg.FieldName, domain.ErrInvalidInput)
	}
	return nil
}

// UploadPoints stores datapoints. A point with an existing id replaces it.
func (s *Store) UploadPoints(_ context.Context, name string, points []domain.Datapoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.get(name)
	if err != nil {
		return err
	}

	batch := c.index.NewBatch()
	for _, dp := range points {
		if len(dp.Vector) != c.schema.Dimensions {
			return fmt.Errorf("point %s has %d dimensions, want %d: %w",
				dp.ID, len(dp.Vector), c.schema.Dimensions, domain.ErrDimensionMismatch)
		}
		if err := batch.Index(dp.ID, textDocument(dp.Payload)); err != nil {
			return fmt.Errorf("index point %s: %w", dp.ID, err)
		}
	}
	if err := c.index.Batch(batch); err != nil {
		return fmt.Errorf("index batch: %w", err)
	}

	for _, dp := range points {
		if i, ok := c.byID[dp.ID]; ok {
			c.points[i] = dp
			continue
		}
		c.byID[dp.ID] = len(c.points)
		c.points = append(c.points, dp)
	}
	return nil
}

func textDocument(f domain.Fragment) map[string]any {
	return map[string]any{
		domain.FieldContent:       f.Text,
		domain.FieldPageTitle:     f.DocumentTitle,
		domain.FieldHeaderContent: f.NearestHeadingText,
	}
}

// SearchByVector scores every point against the query vector. HNSWEf is ignored.
func (s *Store) SearchByVector(_ context.Context, name string, req driven.VectorSearch) ([]domain.ScoredPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.get(name)
	if err != nil {
		return nil, err
	}
	if err := c.checkVector(req.Vector); err != nil {
		return nil, err
	}
	return c.rank(req.Vector, c.points, req.Limit), nil
}

// SearchByFilter returns points matching any text condition, ordered by
// similarity to req.Vector when one is given.
func (s *Store) SearchByFilter(ctx context.Context, name string, req driven.FilterSearch) ([]domain.ScoredPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.get(name)
	if err != nil {
		return nil, err
	}
	if len(req.Filter.Should) == 0 || len(c.points) == 0 {
		return []domain.ScoredPoint{}, nil
	}

	disjuncts := make([]query.Query, 0, len(req.Filter.Should))
	for _, m := range req.Filter.Should {
		if !slices.Contains(textFields, m.Field) {
			return nil, fmt.Errorf("field %q is not mapped: %w", m.Field, domain.ErrInvalidInput)
		}
		mq := bleve.NewMatchQuery(m.Text)
		mq.SetField(m.Field)
		mq.Analyzer = queryAnalyzer
		mq.SetOperator(query.MatchQueryOperatorAnd)
		disjuncts = append(disjuncts, mq)
	}

	sreq := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(disjuncts...), len(c.points), 0, false)
	res, err := c.index.SearchInContext(ctx, sreq)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}

	matched := make([]domain.Datapoint, 0, len(res.Hits))
	textHits := make([]domain.ScoredPoint, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if i, ok := c.byID[hit.ID]; ok {
			matched = append(matched, c.points[i])
			textHits = append(textHits, domain.ScoredPoint{ID: hit.ID, Score: hit.Score, Payload: c.points[i].Payload})
		}
	}

	if len(req.Vector) == 0 {
		// Text relevance order from bleve.
		if req.Limit >= 0 && len(textHits) > req.Limit {
			textHits = textHits[:req.Limit]
		}
		return textHits, nil
	}
	if err := c.checkVector(req.Vector); err != nil {
		return nil, err
	}
	return c.rank(req.Vector, matched, req.Limit), nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error {
	return nil
}

// Close drops every collection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for name, c := range s.collections {
		if err := c.index.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.collections, name)
	}
	return firstErr
}

// get returns the named collection (caller must hold lock).
func (s *Store) get(name string) (*collection, error) {
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %s: %w", name, domain.ErrNotFound)
	}
	return c, nil
}

func (c *collection) checkVector(v []float32) error {
	if len(v) != c.schema.Dimensions {
		return fmt.Errorf("query has %d dimensions, want %d: %w",
			len(v), c.schema.Dimensions, domain.ErrDimensionMismatch)
	}
	return nil
}

// rank scores candidates and returns the best limit of them.
// Equal scores keep upload order.
func (c *collection) rank(vector []float32, candidates []domain.Datapoint, limit int) []domain.ScoredPoint {
	scored := make([]domain.ScoredPoint, 0, len(candidates))
	for _, dp := range candidates {
		scored = append(scored, domain.ScoredPoint{
			ID:      dp.ID,
			Score:   similarity(c.schema.Distance, vector, dp.Vector),
			Payload: dp.Payload,
		})
	}
	slices.SortStableFunc(scored, func(a, b domain.ScoredPoint) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if limit >= 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}
