package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
	"github.com/custodia-labs/wikisearch/internal/logger"
)

// DefaultEmbeddingBatchSize is the number of texts per provider request
// when no batch size is configured.
const DefaultEmbeddingBatchSize = 96

// EmbeddingClient turns texts into index-aligned vectors of a fixed size.
// Provider failures are not retried here; adapters may throttle.
type EmbeddingClient struct {
	service    driven.EmbeddingService
	dimensions int
	batchSize  int
	timeout    time.Duration
}

// NewEmbeddingClient wraps an embedding service.
// A zero batchSize uses DefaultEmbeddingBatchSize; a zero timeout disables
// the per-request deadline.
func NewEmbeddingClient(
	service driven.EmbeddingService, dimensions, batchSize int, timeout time.Duration,
) *EmbeddingClient {
	if dimensions <= 0 {
		dimensions = domain.DefaultDimensions
	}
	if batchSize <= 0 {
		batchSize = DefaultEmbeddingBatchSize
	}
	return &EmbeddingClient{
		service:    service,
		dimensions: dimensions,
		batchSize:  batchSize,
		timeout:    timeout,
	}
}

// Embed returns one vector per text, in input order.
// Any provider failure, count mismatch or wrong vector size is reported
// as a *domain.EmbeddingProviderError.
func (c *EmbeddingClient) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if c.service == nil {
		return nil, &domain.EmbeddingProviderError{Err: domain.ErrEmbeddingUnavailable}
	}
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))
		batch := texts[start:end]

		logger.Debug("(search/embed) batch %d-%d of %d", start, end, len(texts))
		got, err := c.embedBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, got...)
	}

	return vectors, nil
}

// EmbedQuery embeds a single query string.
func (c *EmbeddingClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Dimensions returns the expected vector size.
func (c *EmbeddingClient) Dimensions() int {
	return c.dimensions
}

// Ping checks the provider is reachable.
func (c *EmbeddingClient) Ping(ctx context.Context) error {
	if c.service == nil {
		return domain.ErrEmbeddingUnavailable
	}
	callCtx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()
	return c.service.Ping(callCtx)
}

func (c *EmbeddingClient) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	callCtx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	got, err := c.service.EmbedBatch(callCtx, batch)
	if err != nil {
		return nil, &domain.EmbeddingProviderError{Err: err}
	}
	if len(got) != len(batch) {
		return nil, &domain.EmbeddingProviderError{
			Err: fmt.Errorf("%w: got %d vectors for %d texts", domain.ErrCountMismatch, len(got), len(batch)),
		}
	}
	for i, v := range got {
		if len(v) != c.dimensions {
			return nil, &domain.EmbeddingProviderError{
				Err: fmt.Errorf("%w: vector %d has %d dimensions, want %d",
					domain.ErrDimensionMismatch, i, len(v), c.dimensions),
			}
		}
	}
	return got, nil
}

// withTimeout bounds a remote call. A non-positive timeout only adds
// cancellation.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
