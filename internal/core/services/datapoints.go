package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

// EmbeddingTexts returns the text to embed for each fragment, index-aligned.
func EmbeddingTexts(fragments []domain.Fragment) []string {
	texts := make([]string, len(fragments))
	for i, f := range fragments {
		texts[i] = f.EmbeddingText()
	}
	return texts
}

// BuildDatapoints pairs each fragment with its vector under a fresh id.
// The datapoint id is independent of the fragment; the fragment's own id
// only survives in the payload.
//
// It panics if the slices differ in length: callers always pass vectors
// produced from the same fragments.
func BuildDatapoints(fragments []domain.Fragment, vectors [][]float32) []domain.Datapoint {
	if len(fragments) != len(vectors) {
		panic(fmt.Sprintf("services: %d fragments but %d vectors", len(fragments), len(vectors)))
	}

	points := make([]domain.Datapoint, len(fragments))
	for i := range fragments {
		points[i] = domain.Datapoint{
			ID:      uuid.NewString(),
			Payload: fragments[i],
			Vector:  vectors[i],
		}
	}
	return points
}
