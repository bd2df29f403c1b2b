package ai

import (
	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.ProviderValidator = (*ConfigValidator)(nil)

// ConfigValidator validates provider configurations by contacting them.
type ConfigValidator struct{}

// NewConfigValidator creates a new provider config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding validates an embedding configuration by pinging the provider.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	return ValidateEmbeddingConfig(config)
}

// ValidateIndex validates an index configuration by pinging the store.
func (v *ConfigValidator) ValidateIndex(config *domain.IndexSettings) error {
	return ValidateIndexConfig(config)
}
