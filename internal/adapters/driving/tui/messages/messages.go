// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

// SearchCompleted carries a query response back to the model.
type SearchCompleted struct {
	Query    string
	Response domain.QueryResponse
}

// RebuildStarted is sent when a rebuild begins.
type RebuildStarted struct{}

// RebuildCompleted carries the outcome of a rebuild.
type RebuildCompleted struct {
	Stats *domain.RebuildStats
	Err   error
}

// PagesLoaded carries the pages of the corpus.
type PagesLoaded struct {
	Pages []domain.Document
	Err   error
}

// SettingsLoaded carries the current settings and the outcome of
// validating them.
type SettingsLoaded struct {
	Settings   *domain.AppSettings
	Validation error
	Err        error
}

// SettingsSaved carries the outcome of a settings change.
type SettingsSaved struct {
	Err error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewPages lists the pages of the corpus.
	ViewPages
	// ViewSettings shows and edits the provider and backend settings.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewPages:
		return "pages"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
