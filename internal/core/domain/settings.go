package domain

const unknownDescription = "Unknown"

// EmbeddingProvider identifies the service that turns text into vectors.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderCohere is the Cohere embed API.
	EmbeddingProviderCohere EmbeddingProvider = "cohere"

	// EmbeddingProviderOpenAI is OpenAI cloud API.
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"

	// EmbeddingProviderOllama is local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"

	// EmbeddingProviderGemini is the Google Gemini API.
	EmbeddingProviderGemini EmbeddingProvider = "gemini"
)

// IsValid returns true if the provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderCohere, EmbeddingProviderOpenAI, EmbeddingProviderOllama, EmbeddingProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == EmbeddingProviderCohere || p == EmbeddingProviderOpenAI || p == EmbeddingProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p EmbeddingProvider) IsLocal() bool {
	return p == EmbeddingProviderOllama
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p EmbeddingProvider) Description() string {
	switch p {
	case EmbeddingProviderCohere:
		return "Cohere (cloud)"
	case EmbeddingProviderOpenAI:
		return "OpenAI (cloud)"
	case EmbeddingProviderOllama:
		return "Ollama (local)"
	case EmbeddingProviderGemini:
		return "Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// IndexBackend identifies the vector and text index implementation.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendQdrant is a remote Qdrant server.
	IndexBackendQdrant IndexBackend = "qdrant"

	// IndexBackendBleve is an embedded in-memory index.
	IndexBackendBleve IndexBackend = "bleve"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	return b == IndexBackendQdrant || b == IndexBackendBleve
}

// IsRemote returns true if the backend lives behind the network.
func (b IndexBackend) IsRemote() bool {
	return b == IndexBackendQdrant
}

// String returns the string representation.
func (b IndexBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b IndexBackend) Description() string {
	switch b {
	case IndexBackendQdrant:
		return "Qdrant (remote)"
	case IndexBackendBleve:
		return "Bleve (embedded, in-memory)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider EmbeddingProvider `validate:"required"`

	// Model is the embedding model name.
	Model string `validate:"required"`

	// BaseURL overrides the provider endpoint. Required for Ollama.
	BaseURL string `validate:"omitempty,url"`

	// APIKey is the provider API key.
	APIKey string

	// Dimensions is the embedding vector size.
	Dimensions int `validate:"required,gt=0"`

	// BatchSize is the number of texts sent per provider request.
	BatchSize int `validate:"gte=0,lte=2048"`

	// RequestsPerMinute throttles provider requests. Zero disables throttling.
	RequestsPerMinute int `validate:"gte=0"`
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// IndexSettings holds index store configuration.
type IndexSettings struct {
	// Backend selects the index implementation.
	Backend IndexBackend `validate:"required"`

	// Host is the index server URL. Required for remote backends.
	Host string `validate:"required_if=Backend qdrant"`

	// APIKey authenticates against the index server.
	APIKey string

	// Collection is the collection name.
	Collection string `validate:"required,max=255"`

	// TimeoutSeconds bounds every index call.
	TimeoutSeconds int `validate:"gte=0"`
}

// IsConfigured returns true if the index backend is set up.
func (i IndexSettings) IsConfigured() bool {
	if !i.Backend.IsValid() {
		return false
	}
	if i.Backend.IsRemote() && i.Host == "" {
		return false
	}
	return true
}

// CorpusSettings holds corpus store configuration.
type CorpusSettings struct {
	// DataDir is the directory of the corpus database.
	// Empty means ~/.wikisearch/data.
	DataDir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// Index holds index store settings.
	Index IndexSettings

	// Corpus holds corpus store settings.
	Corpus CorpusSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// API keys are left empty; they come from the config file or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:          EmbeddingProviderCohere,
			Model:             DefaultEmbeddingModels()[EmbeddingProviderCohere],
			Dimensions:        DefaultDimensions,
			BatchSize:         96,
			RequestsPerMinute: 0,
		},
		Index: IndexSettings{
			Backend:        IndexBackendQdrant,
			Host:           "http://localhost:6333",
			Collection:     DefaultCollectionName,
			TimeoutSeconds: 30,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []EmbeddingProvider {
	return []EmbeddingProvider{
		EmbeddingProviderCohere,
		EmbeddingProviderOpenAI,
		EmbeddingProviderOllama,
		EmbeddingProviderGemini,
	}
}

// AllIndexBackends returns all available index backends.
func AllIndexBackends() []IndexBackend {
	return []IndexBackend{
		IndexBackendQdrant,
		IndexBackendBleve,
	}
}

// DefaultEmbeddingModels returns default 768-dimension models for each provider.
func DefaultEmbeddingModels() map[EmbeddingProvider]string {
	return map[EmbeddingProvider]string{
		EmbeddingProviderCohere: "multilingual-22-12",
		EmbeddingProviderOpenAI: "text-embedding-3-small",
		EmbeddingProviderOllama: "nomic-embed-text",
		EmbeddingProviderGemini: "text-embedding-004",
	}
}

// EmbeddingDimensions returns the native vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Cohere models
		"multilingual-22-12":      768,
		"embed-multilingual-v3.0": 1024,
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		// OpenAI models (dimensions are requestable for v3 models)
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		// Gemini models
		"text-embedding-004": 768,
	}
}
