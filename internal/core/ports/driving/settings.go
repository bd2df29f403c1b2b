package driving

import "github.com/custodia-labs/wikisearch/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with environment
	// overrides applied.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by key (e.g. "index.host").
	Set(key, value string) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.EmbeddingProvider, model, apiKey string) error

	// SetIndexBackend configures the index store.
	SetIndexBackend(backend domain.IndexBackend, host, apiKey string) error

	// Validate checks the current settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig() error
}
