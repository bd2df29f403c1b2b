package bleve

import (
	"math"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

func similarity(distance domain.Distance, a, b []float32) float64 {
	dot := dotProduct(a, b)
	if distance != domain.DistanceCosine {
		return dot
	}
	norm := math.Sqrt(dotProduct(a, a)) * math.Sqrt(dotProduct(b, b))
	if norm == 0 {
		return 0
	}
	return dot / norm
}

func dotProduct(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
