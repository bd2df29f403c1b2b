// Package eino adapts any eino embedding.Embedder to driven.EmbeddingService.
// Cohere, OpenAI, Ollama and Gemini all reach the core through this bridge.
package eino

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"

	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// keyChecker is implemented by embedders with a cheap credential check.
type keyChecker interface {
	CheckAPIKey(ctx context.Context) error
}

// EmbeddingService wraps an eino embedder.
type EmbeddingService struct {
	embedder   embedding.Embedder
	model      string
	dimensions int
}

// NewEmbeddingService creates a bridge around embedder.
// dimensions is reported as-is; vectors are not checked here.
func NewEmbeddingService(embedder embedding.Embedder, model string, dimensions int) *EmbeddingService {
	return &EmbeddingService{
		embedder:   embedder,
		model:      model,
		dimensions: dimensions,
	}
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("%s: no embedding returned", s.model)
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts, index-aligned.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors, err := s.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, err
	}

	// Convert float64 to float32
	embeddings := make([][]float32, len(vectors))
	for i, vector := range vectors {
		embeddings[i] = toFloat32(vector)
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the provider is reachable. Embedders that can check their
// credentials do so; others embed a single short text.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if checker, ok := s.embedder.(keyChecker); ok {
		return checker.CheckAPIKey(ctx)
	}
	_, err := s.embedder.EmbedStrings(ctx, []string{"ping"})
	return err
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
