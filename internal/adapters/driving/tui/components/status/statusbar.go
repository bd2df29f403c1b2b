// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/styles"
)

// State represents the current activity for display.
type State string

// Bar states.
const (
	StateReady       State = "ready"
	StateSearching   State = "searching"
	StateRebuilding  State = "rebuilding"
	StateResults     State = "results"
	StateNoMatches   State = "no_matches"
	StateUnavailable State = "unavailable"
	StateError       State = "error"
)

// Bar displays the current activity and keybinding hints.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	state       State
	message     string
	resultCount int
	width       int
}

// NewBar creates a new status bar.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, state: StateReady, width: 80}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	// StatusBar pads one column either side.
	padding := max(s.width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateSearching:
		return s.styles.Muted.Render("Searching...")
	case StateRebuilding:
		return s.styles.Warning.Render("Rebuilding index...")
	case StateResults:
		return s.styles.Normal.Render(fmt.Sprintf("%d results", s.resultCount))
	case StateNoMatches:
		return s.styles.Muted.Render("No matches")
	case StateUnavailable:
		return s.styles.Error.Render("Search unavailable")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render("Error: " + s.message)
		}
		return s.styles.Error.Render("Error")
	case StateReady:
	}
	if s.message != "" {
		return s.styles.Success.Render(s.message)
	}
	return s.styles.Muted.Render("Ready")
}

// renderRight renders keybinding hints for the current state.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateResults {
		bindings = s.keymap.ResultsHelp()
	} else {
		bindings = s.keymap.InputHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the message shown next to the state.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetResultCount sets the result count.
func (s *Bar) SetResultCount(count int) {
	s.resultCount = count
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Clear resets the status bar.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.resultCount = 0
}
