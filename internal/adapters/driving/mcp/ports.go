package mcp

import (
	"github.com/custodia-labs/wikisearch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Search answers queries and rebuilds the index.
	Search driving.SearchEngine

	// Pages reads the corpus. Optional: page resources are empty without it.
	Pages driving.PageService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchEngine
	}
	return nil
}
