// Package tui provides an interactive terminal user interface for wikisearch.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/wikisearch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Search answers queries and rebuilds the index.
	Search driving.SearchEngine

	// Pages lists the corpus. Optional: the pages view is empty without it.
	Pages driving.PageService

	// Settings shows and edits configuration. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchEngine
	}
	return nil
}
