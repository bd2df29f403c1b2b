// Package cohere provides an eino embedding.Embedder for the Cohere embed API.
package cohere

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloudwego/eino/components/embedding"
	"golang.org/x/time/rate"
)

// Ensure Embedder implements the interface.
var _ embedding.Embedder = (*Embedder)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.cohere.ai"
	DefaultModel   = "multilingual-22-12"
	DefaultTimeout = 60 * time.Second

	// MaxBatchSize is the most texts Cohere accepts per embed request.
	MaxBatchSize = 96
)

// Config holds configuration for the Cohere embedder.
type Config struct {
	// APIKey is the Cohere API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.cohere.ai).
	BaseURL string

	// Model is the embedding model (default: multilingual-22-12).
	Model string

	// BatchSize caps texts per request (default and maximum: 96).
	BatchSize int

	// RequestsPerMinute throttles requests. Zero disables throttling.
	RequestsPerMinute int

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration
}

// Embedder calls POST /v1/embed.
type Embedder struct {
	client    *http.Client
	baseURL   string
	apiKey    string
	model     string
	batchSize int
	limiter   *rate.Limiter
}

type embedRequest struct {
	Texts    []string `json:"texts"`
	Model    string   `json:"model"`
	Truncate string   `json:"truncate"`
}

type embedResponse struct {
	ID         string      `json:"id"`
	Embeddings [][]float64 `json:"embeddings"`
	Message    string      `json:"message,omitempty"`
}

type checkKeyResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// NewEmbedder creates a new Cohere embedder.
func NewEmbedder(cfg Config) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cohere: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BatchSize <= 0 || cfg.BatchSize > MaxBatchSize {
		cfg.BatchSize = MaxBatchSize
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}

	return &Embedder{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   cfg.BaseURL,
		apiKey:    cfg.APIKey,
		model:     cfg.Model,
		batchSize: cfg.BatchSize,
		limiter:   limiter,
	}, nil
}

// Model returns the configured model name.
func (e *Embedder) Model() string {
	return e.model
}

// EmbedStrings implements the embedding.Embedder interface.
// Texts are sent in batches of at most BatchSize; the result is index-aligned.
func (e *Embedder) EmbedStrings(ctx context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := min(start+e.batchSize, len(texts))
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("cohere: rate limit wait: %w", err)
		}

		batch, err := e.embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		if len(batch) != end-start {
			return nil, fmt.Errorf("cohere: expected %d embeddings, got %d", end-start, len(batch))
		}
		out = append(out, batch...)
	}

	return out, nil
}

func (e *Embedder) embed(ctx context.Context, texts []string) ([][]float64, error) {
	var resp embedResponse
	err := e.post(ctx, "/v1/embed", embedRequest{
		Texts:    texts,
		Model:    e.model,
		Truncate: "END",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Embeddings, nil
}

// CheckAPIKey verifies the key with POST /v1/check-api-key.
func (e *Embedder) CheckAPIKey(ctx context.Context) error {
	var resp checkKeyResponse
	if err := e.post(ctx, "/v1/check-api-key", struct{}{}, &resp); err != nil {
		return err
	}
	if !resp.Valid {
		return fmt.Errorf("cohere: API key is not valid")
	}
	return nil
}

func (e *Embedder) post(ctx context.Context, path string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("cohere: send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("cohere: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("cohere error (status %d): %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("cohere error (status %d): %s", resp.StatusCode, string(data))
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("cohere: decode response: %w", err)
	}
	return nil
}
