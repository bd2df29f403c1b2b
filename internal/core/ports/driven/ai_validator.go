package driven

import "github.com/custodia-labs/wikisearch/internal/core/domain"

// ProviderValidator checks provider configurations before they are saved.
// Implementations verify connectivity to the underlying services.
type ProviderValidator interface {
	// ValidateEmbedding pings the embedding provider.
	// Returns nil if the configuration is valid or not configured.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateIndex pings the index store.
	ValidateIndex(config *domain.IndexSettings) error
}
