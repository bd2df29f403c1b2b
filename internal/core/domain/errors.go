package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrUnsupportedType indicates an unknown provider or backend type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrRebuildInProgress indicates another rebuild holds the index.
	ErrRebuildInProgress = errors.New("rebuild in progress")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexUnavailable indicates the index store is not configured.
	ErrIndexUnavailable = errors.New("index store unavailable")

	// ErrCorpusUnavailable indicates the corpus store is not configured.
	ErrCorpusUnavailable = errors.New("corpus store unavailable")

	// ErrDimensionMismatch indicates a vector of the wrong size.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrCountMismatch indicates the provider returned the wrong number of vectors.
	ErrCountMismatch = errors.New("embedding count mismatch")
)

// EmbeddingProviderError reports a failed or malformed embedding call.
type EmbeddingProviderError struct {
	Err error
}

func (e *EmbeddingProviderError) Error() string {
	return fmt.Sprintf("embedding provider: %v", e.Err)
}

func (e *EmbeddingProviderError) Unwrap() error {
	return e.Err
}

// BuildStep names a step of the index rebuild.
type BuildStep string

// Rebuild steps, in execution order.
const (
	BuildStepCorpus  BuildStep = "corpus"
	BuildStepExtract BuildStep = "extract"
	BuildStepDelete  BuildStep = "delete"
	BuildStepCreate  BuildStep = "create"
	BuildStepIndex   BuildStep = "index"
	BuildStepEmbed   BuildStep = "embed"
	BuildStepUpload  BuildStep = "upload"
)

// IndexBuildError reports the rebuild step that failed.
// The collection is left as the previous step produced it.
type IndexBuildError struct {
	Step BuildStep
	Err  error
}

func (e *IndexBuildError) Error() string {
	return fmt.Sprintf("index build failed at %s: %v", e.Step, e.Err)
}

func (e *IndexBuildError) Unwrap() error {
	return e.Err
}

// VectorSearchError reports a failed similarity search.
type VectorSearchError struct {
	Err error
}

func (e *VectorSearchError) Error() string {
	return fmt.Sprintf("search by vector: %v", e.Err)
}

func (e *VectorSearchError) Unwrap() error {
	return e.Err
}

// TextSearchError reports a failed filtered text search.
type TextSearchError struct {
	Err error
}

func (e *TextSearchError) Error() string {
	return fmt.Sprintf("search by text: %v", e.Err)
}

func (e *TextSearchError) Unwrap() error {
	return e.Err
}
