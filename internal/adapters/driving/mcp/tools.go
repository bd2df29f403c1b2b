package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query  string `json:"query" jsonschema:"the search query to find wiki pages and sections"`
	Path   string `json:"path,omitempty" jsonschema:"path of the page the query is issued from"`
	Locale string `json:"locale,omitempty" jsonschema:"reader locale (default en)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Status    string               `json:"status"`
	Results   []domain.QueryResult `json:"results"`
	TotalHits int                  `json:"totalHits"`
}

// RebuildInput is the input schema for the rebuild tool.
type RebuildInput struct{}

// RebuildOutput is the output schema for the rebuild tool.
type RebuildOutput struct {
	Documents  int    `json:"documents"`
	Fragments  int    `json:"fragments"`
	Datapoints int    `json:"datapoints"`
	Duration   string `json:"duration"`
	State      string `json:"state"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search wiki pages by meaning and by matching text",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "rebuild",
		Description: "Rebuild the search index from every published page",
	}, s.handleRebuild)
}

// handleSearch handles the search tool invocation.
// An unavailable backend is reported as a tool error so the assistant
// does not mistake it for an empty result.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	resp := s.ports.Search.Query(ctx, input.Query, domain.QueryOptions{
		Path:   input.Path,
		Locale: input.Locale,
	})
	if !resp.Available() {
		return nil, SearchOutput{}, fmt.Errorf("search unavailable: %w", resp.Err)
	}

	return nil, SearchOutput{
		Status:    resp.Status.String(),
		Results:   resp.Results,
		TotalHits: resp.TotalHits,
	}, nil
}

// handleRebuild handles the rebuild tool invocation.
func (s *Server) handleRebuild(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ RebuildInput,
) (*mcp.CallToolResult, RebuildOutput, error) {
	stats, err := s.ports.Search.Rebuild(ctx)
	if err != nil {
		return nil, RebuildOutput{}, err
	}

	return nil, RebuildOutput{
		Documents:  stats.Documents,
		Fragments:  stats.Fragments,
		Datapoints: stats.Datapoints,
		Duration:   stats.Duration.String(),
		State:      stats.State.String(),
	}, nil
}
