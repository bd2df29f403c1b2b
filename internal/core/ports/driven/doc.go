// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CorpusStore: Source of rendered pages (SQLite)
//   - FragmentExtractor: Splits a page into headings and content blocks
//   - EmbeddingService: Generates vector embeddings (Cohere, OpenAI, Ollama, Gemini)
//   - IndexStore: Vector and full-text index (Qdrant, or embedded Bleve)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - ProviderValidator: Checks provider connectivity before settings are saved.
//
// # Error Handling
//
// Adapters report a missing collection or record as domain.ErrNotFound so
// callers can test for it with errors.Is.
package driven
