package domain

import (
	"fmt"
	"time"
)

// DefaultLocale is the locale reported on every query result.
const DefaultLocale = "en"

// PageDescription is the description of page-level (sentinel) hits.
const PageDescription = "Page"

// QueryOptions carries host-supplied query context.
type QueryOptions struct {
	// Path is the page the query was issued from. Informational only.
	Path string

	// Locale is the reader's locale. Informational only.
	Locale string
}

// QueryResult is a single search hit in the shape the host expects.
type QueryResult struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Path        string `json:"path"`
	Locale      string `json:"locale"`
}

// QueryStatus distinguishes a healthy empty result from a failed search.
type QueryStatus string

// Query statuses.
const (
	// QueryStatusOK means both searches ran and returned hits.
	QueryStatusOK QueryStatus = "ok"

	// QueryStatusNoMatches means both searches ran and nothing matched.
	QueryStatusNoMatches QueryStatus = "no_matches"

	// QueryStatusUnavailable means a backend call failed; results are empty.
	QueryStatusUnavailable QueryStatus = "unavailable"
)

// String returns the string representation.
func (s QueryStatus) String() string {
	return string(s)
}

// QueryResponse is the outcome of a hybrid query.
type QueryResponse struct {
	Status      QueryStatus   `json:"status"`
	Results     []QueryResult `json:"results"`
	Suggestions []string      `json:"suggestions"`
	TotalHits   int           `json:"totalHits"`

	// Err is the cause when Status is QueryStatusUnavailable.
	Err error `json:"-"`
}

// Available reports whether the search backends answered.
func (r QueryResponse) Available() bool {
	return r.Status != QueryStatusUnavailable
}

// NewQueryResponse builds a successful response from merged results.
func NewQueryResponse(results []QueryResult) QueryResponse {
	status := QueryStatusOK
	if len(results) == 0 {
		status = QueryStatusNoMatches
	}
	return QueryResponse{
		Status:      status,
		Results:     results,
		Suggestions: []string{},
		TotalHits:   len(results),
	}
}

// UnavailableResponse builds the response returned when a search step fails.
func UnavailableResponse(err error) QueryResponse {
	return QueryResponse{
		Status:      QueryStatusUnavailable,
		Results:     []QueryResult{},
		Suggestions: []string{},
		Err:         err,
	}
}

// RebuildStats summarises a completed rebuild.
type RebuildStats struct {
	Documents  int
	Fragments  int
	Datapoints int
	Duration   time.Duration
	State      IndexState
}

// String returns a one-line summary.
func (s RebuildStats) String() string {
	return fmt.Sprintf("%d documents, %d fragments, %d datapoints in %s (state: %s)",
		s.Documents, s.Fragments, s.Datapoints, s.Duration.Round(time.Millisecond), s.State)
}
