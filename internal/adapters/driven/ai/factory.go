// Package ai creates embedding services and validates provider configurations.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	geminiEmbed "github.com/cloudwego/eino-ext/components/embedding/gemini"
	ollamaEmbed "github.com/cloudwego/eino-ext/components/embedding/ollama"
	openaiEmbed "github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"

	"github.com/custodia-labs/wikisearch/internal/adapters/driven/embedding/cohere"
	einoembed "github.com/custodia-labs/wikisearch/internal/adapters/driven/embedding/eino"
	"github.com/custodia-labs/wikisearch/internal/adapters/driven/index"
	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// DefaultOllamaURL is used when no base URL is configured for Ollama.
const DefaultOllamaURL = "http://localhost:11434"

// NewEmbedder creates the eino embedder for the configured provider.
func NewEmbedder(ctx context.Context, settings *domain.EmbeddingSettings) (embedding.Embedder, error) {
	switch settings.Provider {
	case domain.EmbeddingProviderCohere:
		return cohere.NewEmbedder(cohere.Config{
			APIKey:            settings.APIKey,
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			BatchSize:         settings.BatchSize,
			RequestsPerMinute: settings.RequestsPerMinute,
		})

	case domain.EmbeddingProviderOpenAI:
		if settings.APIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		cfg := &openaiEmbed.EmbeddingConfig{
			Model:   settings.Model,
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
		}
		if settings.Dimensions > 0 {
			dims := settings.Dimensions
			cfg.Dimensions = &dims
		}
		return openaiEmbed.NewEmbedder(ctx, cfg)

	case domain.EmbeddingProviderOllama:
		baseURL := settings.BaseURL
		if baseURL == "" {
			baseURL = DefaultOllamaURL
		}
		return ollamaEmbed.NewEmbedder(ctx, &ollamaEmbed.EmbeddingConfig{
			BaseURL: baseURL,
			Model:   settings.Model,
		})

	case domain.EmbeddingProviderGemini:
		if settings.APIKey == "" {
			return nil, fmt.Errorf("gemini API key is required")
		}
		// The Gemini client reads its key from the environment.
		_ = os.Setenv("GOOGLE_API_KEY", settings.APIKey)
		_ = os.Setenv("GEMINI_API_KEY", settings.APIKey)
		return geminiEmbed.NewEmbedder(ctx, &geminiEmbed.EmbeddingConfig{
			Model: settings.Model,
		})

	default:
		return nil, fmt.Errorf("embedding provider %q: %w", settings.Provider, domain.ErrUnsupportedType)
	}
}

// CreateEmbeddingService creates the embedding service for settings.
// Returns domain.ErrEmbeddingUnavailable if the provider is not configured.
func CreateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, domain.ErrEmbeddingUnavailable
	}

	embedder, err := NewEmbedder(ctx, settings)
	if err != nil {
		return nil, err
	}

	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}
	return einoembed.NewEmbeddingService(embedder, settings.Model, dimensions), nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'wikisearch settings set' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'wikisearch settings set' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// Unconfigured settings are not an error.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateAndValidateEmbeddingService(context.Background(), settings)
	if err != nil {
		return err
	}
	return svc.Close()
}

// ValidateIndexConfig validates an index configuration by pinging the store.
// Unconfigured settings are not an error.
func ValidateIndexConfig(settings *domain.IndexSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	store, err := index.NewStore(settings)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return store.Ping(ctx)
}
