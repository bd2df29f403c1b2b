// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The indexing pipeline runs corpus -> FragmentExtractor -> EmbeddingClient
// -> BuildDatapoints -> IndexManager. Queries run through SearchEngine,
// which dispatches a vector search and a text search concurrently and
// merges them vector-first.
//
// Services are pure Go with no CGO or external dependencies.
package services
