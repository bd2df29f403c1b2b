package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDims       = "embedding.dimensions"
	keyEmbedBatchSize  = "embedding.batch_size"
	keyEmbedRPM        = "embedding.requests_per_minute"
	keyIndexBackend    = "index.backend"
	keyIndexHost       = "index.host"
	keyIndexAPIKey     = "index.api_key"
	keyIndexCollection = "index.collection"
	keyIndexTimeout    = "index.timeout_seconds"
	keyCorpusDataDir   = "corpus.data_dir"
)

// Environment variables that override the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvEmbeddingAPIKey = "WIKISEARCH_EMBEDDING_API_KEY"
	EnvCohereAPIKey    = "COHERE_API_KEY"
	EnvIndexHost       = "WIKISEARCH_INDEX_HOST"
	EnvIndexAPIKey     = "WIKISEARCH_INDEX_API_KEY"
)

// defaultOllamaURL is the base URL of a local Ollama instance.
const defaultOllamaURL = "http://localhost:11434"

// validate caches struct info across calls.
var validate = validator.New()

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validator   driven.ProviderValidator
}

// NewSettingsService creates a new settings service.
// The validator is optional (can be nil).
func NewSettingsService(configStore driven.ConfigStore, providerValidator driven.ProviderValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validator:   providerValidator,
	}
}

// Get retrieves current application settings, with environment
// overrides applied.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := s.load()
	applyEnvOverrides(settings)
	return settings, nil
}

// load reads settings from the config store only.
func (s *SettingsService) load() *domain.AppSettings {
	defaults := domain.DefaultAppSettings()

	return &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			Dimensions:        s.getInt(keyEmbedDims, defaults.Embedding.Dimensions),
			BatchSize:         s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			RequestsPerMinute: s.configStore.GetInt(keyEmbedRPM),
		},
		Index: domain.IndexSettings{
			Backend:        s.getBackend(defaults.Index.Backend),
			Host:           s.getString(keyIndexHost, defaults.Index.Host),
			APIKey:         s.configStore.GetString(keyIndexAPIKey),
			Collection:     s.getString(keyIndexCollection, defaults.Index.Collection),
			TimeoutSeconds: s.getInt(keyIndexTimeout, defaults.Index.TimeoutSeconds),
		},
		Corpus: domain.CorpusSettings{
			DataDir: s.configStore.GetString(keyCorpusDataDir),
		},
	}
}

func applyEnvOverrides(settings *domain.AppSettings) {
	if key := os.Getenv(EnvEmbeddingAPIKey); key != "" {
		settings.Embedding.APIKey = key
	} else if key := os.Getenv(EnvCohereAPIKey); key != "" &&
		settings.Embedding.Provider == domain.EmbeddingProviderCohere {
		settings.Embedding.APIKey = key
	}
	if host := os.Getenv(EnvIndexHost); host != "" {
		settings.Index.Host = host
	}
	if key := os.Getenv(EnvIndexAPIKey); key != "" {
		settings.Index.APIKey = key
	}
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyEmbedDims, settings.Embedding.Dimensions); err != nil {
		return fmt.Errorf("save embedding dimensions: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBatchSize, settings.Embedding.BatchSize); err != nil {
		return fmt.Errorf("save embedding batch_size: %w", err)
	}
	if err := s.configStore.Set(keyEmbedRPM, settings.Embedding.RequestsPerMinute); err != nil {
		return fmt.Errorf("save embedding requests_per_minute: %w", err)
	}

	// Save index settings
	if err := s.configStore.Set(keyIndexBackend, settings.Index.Backend.String()); err != nil {
		return fmt.Errorf("save index backend: %w", err)
	}
	if err := s.configStore.Set(keyIndexHost, settings.Index.Host); err != nil {
		return fmt.Errorf("save index host: %w", err)
	}
	if settings.Index.APIKey != "" {
		if err := s.configStore.Set(keyIndexAPIKey, settings.Index.APIKey); err != nil {
			return fmt.Errorf("save index api_key: %w", err)
		}
	}
	if err := s.configStore.Set(keyIndexCollection, settings.Index.Collection); err != nil {
		return fmt.Errorf("save index collection: %w", err)
	}
	if err := s.configStore.Set(keyIndexTimeout, settings.Index.TimeoutSeconds); err != nil {
		return fmt.Errorf("save index timeout_seconds: %w", err)
	}

	// Save corpus settings
	if settings.Corpus.DataDir != "" {
		if err := s.configStore.Set(keyCorpusDataDir, settings.Corpus.DataDir); err != nil {
			return fmt.Errorf("save corpus data_dir: %w", err)
		}
	}

	return nil
}

// Set updates a single setting by key.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch key {
	case keyEmbedProvider:
		if !domain.EmbeddingProvider(value).IsValid() {
			return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, value)
		}
	case keyIndexBackend:
		if !domain.IndexBackend(value).IsValid() {
			return fmt.Errorf("%w: invalid index backend: %s", domain.ErrInvalidInput, value)
		}
	case keyEmbedDims, keyEmbedBatchSize, keyEmbedRPM, keyIndexTimeout:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		return s.configStore.Set(key, n)
	case keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey,
		keyIndexHost, keyIndexAPIKey, keyIndexCollection, keyCorpusDataDir:
	default:
		return fmt.Errorf("%w: unknown setting: %s", domain.ErrInvalidInput, key)
	}

	return s.configStore.Set(key, value)
}

// SettingKeys returns every key accepted by Set.
func SettingKeys() []string {
	return []string{
		keyEmbedProvider, keyEmbedModel, keyEmbedBaseURL, keyEmbedAPIKey,
		keyEmbedDims, keyEmbedBatchSize, keyEmbedRPM,
		keyIndexBackend, keyIndexHost, keyIndexAPIKey, keyIndexCollection, keyIndexTimeout,
		keyCorpusDataDir,
	}
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.EmbeddingProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings := s.load()
	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	// OpenAI v3 models accept a requested size; the others are fixed.
	if dims, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok && provider != domain.EmbeddingProviderOpenAI {
		settings.Embedding.Dimensions = dims
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = defaultOllamaURL
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetIndexBackend configures the index store.
func (s *SettingsService) SetIndexBackend(backend domain.IndexBackend, host, apiKey string) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid index backend: %s", backend)
	}

	settings := s.load()
	settings.Index.Backend = backend
	if host != "" {
		settings.Index.Host = host
	}
	settings.Index.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return ValidateSettings(settings)
}

// ValidateSettings checks settings against their struct rules and the
// provider requirements.
func ValidateSettings(settings *domain.AppSettings) error {
	var messages []string

	if err := validate.Struct(settings); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return err
		}
		for _, e := range validationErrors {
			messages = append(messages, fmt.Sprintf("%s: rule '%s' failed (value: '%v')",
				e.Namespace(), e.Tag(), e.Value()))
		}
	}

	if !settings.Embedding.Provider.IsValid() {
		messages = append(messages, fmt.Sprintf("unknown embedding provider %q", settings.Embedding.Provider))
	} else if !settings.Embedding.IsConfigured() {
		messages = append(messages, fmt.Sprintf("embedding provider %q requires an API key",
			settings.Embedding.Provider.Description()))
	}
	if !settings.Index.Backend.IsValid() {
		messages = append(messages, fmt.Sprintf("unknown index backend %q", settings.Index.Backend))
	}
	if settings.Index.Backend.IsRemote() && settings.Index.Host != "" {
		if err := validate.Var(settings.Index.Host, "url"); err != nil {
			messages = append(messages, fmt.Sprintf("index host %q is not a URL", settings.Index.Host))
		}
	}

	if len(messages) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(messages, "; "))
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.validator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.validator.ValidateEmbedding(&settings.Embedding)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(defaultVal domain.EmbeddingProvider) domain.EmbeddingProvider {
	provider := domain.EmbeddingProvider(s.configStore.GetString(keyEmbedProvider))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.IndexBackend) domain.IndexBackend {
	backend := domain.IndexBackend(s.configStore.GetString(keyIndexBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
