package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

func TestMergeUnique_KeepsFirstOccurrence(t *testing.T) {
	a := contentHit("A", "/a", "x", "vector A")
	b := contentHit("B", "/b", "y", "B")
	aAgain := contentHit("A", "/a", "x", "text A")

	merged := MergeUnique([]domain.ScoredPoint{a, b}, []domain.ScoredPoint{aAgain})

	assert.Len(t, merged, 2)
	assert.Equal(t, "A", merged[0].ID)
	assert.Equal(t, "vector A", merged[0].Payload.Text)
	assert.Equal(t, "B", merged[1].ID)
}

func TestMergeUnique_VectorThenText(t *testing.T) {
	merged := MergeUnique(
		[]domain.ScoredPoint{contentHit("V1", "/v", "1", "v1"), contentHit("V2", "/v", "2", "v2")},
		[]domain.ScoredPoint{contentHit("T1", "/t", "1", "t1")},
	)

	ids := make([]string, len(merged))
	for i, p := range merged {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"V1", "V2", "T1"}, ids)
}

func TestMergeUnique_DuplicatesWithinOneList(t *testing.T) {
	a := contentHit("A", "/a", "x", "A")
	b := contentHit("B", "/b", "y", "B")

	merged := MergeUnique([]domain.ScoredPoint{a, b, a})

	assert.Len(t, merged, 2)
}

func TestMergeUnique_Empty(t *testing.T) {
	assert.Empty(t, MergeUnique(nil, nil))
}

func TestProjectResult_ContentHit(t *testing.T) {
	result := ProjectResult(contentHit("p1", "/doc", "intro", "Hello"))

	assert.Equal(t, domain.QueryResult{
		ID:          "/doc_intro",
		Title:       "Doc",
		Description: "Hello",
		Path:        "/doc#intro",
		Locale:      "en",
	}, result)
}

func TestProjectResult_SentinelHit(t *testing.T) {
	result := ProjectResult(sentinelHit("p2", "/doc"))

	assert.Equal(t, domain.QueryResult{
		ID:          "/doc",
		Title:       "Doc",
		Description: "Page",
		Path:        "/doc",
		Locale:      "en",
	}, result)
}

func TestProjectResult_EmptyHeadingIsPageHit(t *testing.T) {
	hit := domain.ScoredPoint{
		ID: "p3",
		Payload: domain.Fragment{
			ID:            "empty",
			Kind:          domain.FragmentKindHeading,
			DocumentTitle: "Doc",
			DocumentPath:  "/doc",
		},
	}

	result := ProjectResult(hit)

	assert.Equal(t, "/doc", result.ID)
	assert.Equal(t, "Page", result.Description)
}

func TestTextFilter(t *testing.T) {
	filter := textFilter("install")

	assert.Len(t, filter.Should, 2)
	assert.Equal(t, domain.FieldContent, filter.Should[0].Field)
	assert.Equal(t, domain.FieldHeaderContent, filter.Should[1].Field)
	for _, m := range filter.Should {
		assert.Equal(t, "install", m.Text)
	}
}
