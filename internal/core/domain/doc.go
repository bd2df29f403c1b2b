// Package domain defines the core business entities for wikisearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A published wiki page read from the corpus
//   - Fragment: An indexable heading or content block of a page
//   - Datapoint: A fragment paired with its embedding and storage ID
//   - QueryResult: A projected hit returned to the host
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
