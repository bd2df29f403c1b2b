// Package qdrant implements driven.IndexStore over the Qdrant REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
	"github.com/custodia-labs/wikisearch/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultHost      = "http://localhost:6333"
	DefaultTimeout   = 30 * time.Second
	UploadBatchSize  = 256
	apiKeyHeader     = "api-key"
	contentTypeJSON  = "application/json"
	alreadyExistsMsg = "already exists"
)

// Config holds configuration for the Qdrant store.
type Config struct {
	// Host is the server URL (default: http://localhost:6333).
	Host string

	// APIKey is sent in the api-key header when set.
	APIKey string

	// Timeout bounds each HTTP request (default: 30s).
	Timeout time.Duration
}

// Store is a minimal REST client for Qdrant.
type Store struct {
	host   string
	apiKey string
	client *http.Client
}

// NewStore creates a Qdrant store. No request is made until first use.
func NewStore(cfg Config) *Store {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Store{
		host:   strings.TrimRight(cfg.Host, "/"),
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

type vectorParams struct {
	Size     int    `json:"size"`
	Distance string `json:"distance"`
}

type fieldSchema struct {
	Type        string `json:"type"`
	Tokenizer   string `json:"tokenizer"`
	MinTokenLen int    `json:"min_token_len"`
	MaxTokenLen int    `json:"max_token_len"`
	Lowercase   bool   `json:"lowercase"`
}

type point struct {
	ID      string          `json:"id"`
	Vector  []float32       `json:"vector"`
	Payload domain.Fragment `json:"payload"`
}

type matchText struct {
	Text string `json:"text"`
}

type condition struct {
	Key   string    `json:"key"`
	Match matchText `json:"match"`
}

type filter struct {
	Should []condition `json:"should"`
}

type searchParams struct {
	HNSWEf int `json:"hnsw_ef"`
}

type searchRequest struct {
	Vector      []float32     `json:"vector"`
	Filter      *filter       `json:"filter,omitempty"`
	Limit       int           `json:"limit"`
	Params      *searchParams `json:"params,omitempty"`
	WithPayload bool          `json:"with_payload"`
}

type searchResponse struct {
	Result []struct {
		ID      any             `json:"id"`
		Score   float64         `json:"score"`
		Payload domain.Fragment `json:"payload"`
	} `json:"result"`
}

type errorResponse struct {
	Status struct {
		Error string `json:"error"`
	} `json:"status"`
}

// CreateCollection creates an empty collection.
func (s *Store) CreateCollection(ctx context.Context, schema domain.CollectionSchema) error {
	body := map[string]any{
		"vectors": vectorParams{
			Size:     schema.Dimensions,
			Distance: string(schema.Distance),
		},
	}
	err := s.do(ctx, http.MethodPut, s.collectionPath(schema.Name), body, nil)
	if err != nil && strings.Contains(err.Error(), alreadyExistsMsg) {
		return fmt.Errorf("collection %s: %w", schema.Name, domain.ErrAlreadyExists)
	}
	return err
}

// DeleteCollection removes a collection. A missing collection returns domain.ErrNotFound.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	return s.do(ctx, http.MethodDelete, s.collectionPath(name), nil, nil)
}

// CollectionExists reports whether the collection is present.
func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	var resp struct {
		Result struct {
			Exists bool `json:"exists"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodGet, s.collectionPath(name)+"/exists", nil, &resp); err != nil {
		return false, err
	}
	return resp.Result.Exists, nil
}

// CreateTextIndex configures a full-text payload index.
func (s *Store) CreateTextIndex(ctx context.Context, collection string, cfg domain.TextIndexConfig) error {
	body := map[string]any{
		"field_name": cfg.FieldName,
		"field_schema": fieldSchema{
			Type:        "text",
			Tokenizer:   string(cfg.Tokenizer),
			MinTokenLen: cfg.MinTokenLen,
			MaxTokenLen: cfg.MaxTokenLen,
			Lowercase:   cfg.Lowercase,
		},
	}
	return s.do(ctx, http.MethodPut, s.collectionPath(collection)+"/index?wait=true", body, nil)
}

// UploadPoints stores datapoints in batches of UploadBatchSize.
func (s *Store) UploadPoints(ctx context.Context, collection string, points []domain.Datapoint) error {
	for start := 0; start < len(points); start += UploadBatchSize {
		end := min(start+UploadBatchSize, len(points))
		batch := make([]point, 0, end-start)
		for _, dp := range points[start:end] {
			batch = append(batch, point{ID: dp.ID, Vector: dp.Vector, Payload: dp.Payload})
		}

		logger.Debug("(search/qdrant) uploading points %d-%d of %d", start+1, end, len(points))
		body := map[string]any{"points": batch}
		if err := s.do(ctx, http.MethodPut, s.collectionPath(collection)+"/points?wait=true", body, nil); err != nil {
			return fmt.Errorf("upload points %d-%d: %w", start+1, end, err)
		}
	}
	return nil
}

// SearchByVector runs an unfiltered nearest-neighbour search.
func (s *Store) SearchByVector(ctx context.Context, collection string, req driven.VectorSearch) ([]domain.ScoredPoint, error) {
	body := searchRequest{
		Vector:      req.Vector,
		Limit:       req.Limit,
		WithPayload: true,
	}
	if req.HNSWEf > 0 {
		body.Params = &searchParams{HNSWEf: req.HNSWEf}
	}
	return s.search(ctx, collection, body)
}

// SearchByFilter runs a search restricted to points matching the text filter.
func (s *Store) SearchByFilter(ctx context.Context, collection string, req driven.FilterSearch) ([]domain.ScoredPoint, error) {
	f := &filter{Should: make([]condition, 0, len(req.Filter.Should))}
	for _, m := range req.Filter.Should {
		f.Should = append(f.Should, condition{Key: m.Field, Match: matchText{Text: m.Text}})
	}
	return s.search(ctx, collection, searchRequest{
		Vector:      req.Vector,
		Filter:      f,
		Limit:       req.Limit,
		WithPayload: true,
	})
}

func (s *Store) search(ctx context.Context, collection string, body searchRequest) ([]domain.ScoredPoint, error) {
	var resp searchResponse
	if err := s.do(ctx, http.MethodPost, s.collectionPath(collection)+"/points/search", body, &resp); err != nil {
		return nil, err
	}

	results := make([]domain.ScoredPoint, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, domain.ScoredPoint{
			ID:      fmt.Sprint(r.ID),
			Score:   r.Score,
			Payload: r.Payload,
		})
	}
	return results, nil
}

// Ping checks the server answers on its root endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.do(ctx, http.MethodGet, "/", nil, nil)
}

// Close releases resources.
func (s *Store) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

func (s *Store) collectionPath(name string) string {
	return "/collections/" + url.PathEscape(name)
}

// do sends a JSON request and decodes a JSON response into out when non-nil.
// 404 maps to domain.ErrNotFound; other non-2xx statuses carry status.error.
func (s *Store) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.host+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if s.apiKey != "" {
		req.Header.Set(apiKeyHeader, s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: read response: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("qdrant %s %s: %w", method, path, domain.ErrNotFound)
	}
	if resp.StatusCode >= 300 {
		var apiErr errorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Status.Error != "" {
			return fmt.Errorf("qdrant %s %s failed (status %d): %s", method, path, resp.StatusCode, apiErr.Status.Error)
		}
		return fmt.Errorf("qdrant %s %s failed: %s", method, path, resp.Status)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("qdrant %s %s: decode response: %w", method, path, err)
		}
	}
	return nil
}
