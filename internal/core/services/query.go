package services

import (
	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
)

// Hybrid query parameters.
const (
	vectorSearchLimit = 7
	vectorSearchEf    = 128
	textSearchLimit   = 3
)

// textFilter matches the query against fragment text or the text of the
// fragment's nearest heading.
func textFilter(query string) driven.TextFilter {
	return driven.TextFilter{
		Should: []driven.TextMatch{
			{Field: domain.FieldContent, Text: query},
			{Field: domain.FieldHeaderContent, Text: query},
		},
	}
}

// MergeUnique concatenates result lists in order, keeping the first
// occurrence of each datapoint id.
func MergeUnique(lists ...[]domain.ScoredPoint) []domain.ScoredPoint {
	total := 0
	for _, l := range lists {
		total += len(l)
	}

	seen := make(map[string]struct{}, total)
	merged := make([]domain.ScoredPoint, 0, total)
	for _, l := range lists {
		for _, p := range l {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			merged = append(merged, p)
		}
	}
	return merged
}

// ProjectResult converts a hit into the result shape the host expects.
// Hits with text link to the fragment anchor; the rest stand for the page.
func ProjectResult(p domain.ScoredPoint) domain.QueryResult {
	f := p.Payload
	if f.Text != "" {
		return domain.QueryResult{
			ID:          f.DocumentPath + "_" + f.ID,
			Title:       f.DocumentTitle,
			Description: f.Text,
			Path:        f.DocumentPath + "#" + f.ID,
			Locale:      domain.DefaultLocale,
		}
	}
	return domain.QueryResult{
		ID:          f.DocumentPath,
		Title:       f.DocumentTitle,
		Description: domain.PageDescription,
		Path:        f.DocumentPath,
		Locale:      domain.DefaultLocale,
	}
}

// ProjectResults projects hits in order.
func ProjectResults(points []domain.ScoredPoint) []domain.QueryResult {
	results := make([]domain.QueryResult, len(points))
	for i, p := range points {
		results[i] = ProjectResult(p)
	}
	return results
}
