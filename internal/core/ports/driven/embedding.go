package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// Required: both indexing and querying embed text.
//
// Note: This is separate from IndexStore which stores and searches vectors.
// EmbeddingService generates vectors; IndexStore stores them.
//
// Implementations may include:
//   - Cohere (multilingual-22-12)
//   - OpenAI (text-embedding-3-small)
//   - Ollama (nomic-embed-text)
//   - Gemini (text-embedding-004)
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts efficiently.
	// This is more efficient than calling Embed in a loop for large batches.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (768 for every default model).
	// This is determined by the model and must match the collection schema.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	// This is used at startup to verify connectivity before committing to a search mode.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
