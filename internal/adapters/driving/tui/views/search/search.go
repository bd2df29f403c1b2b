// Package search provides the main search view for the TUI.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driving"
)

// ErrNoSearchEngine indicates that no search engine was provided.
var ErrNoSearchEngine = errors.New("search engine is required")

// View is the search view: query input, results list and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	engine driving.SearchEngine
	ctx    context.Context

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true while typing, false while navigating results
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, engine driving.SearchEngine) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km),
		engine:     engine,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context used for queries and rebuilds.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.RebuildCompleted:
		v.handleRebuildCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if keymap.Matches(msg.String(), v.keymap.Rebuild) {
		return v, v.Rebuild()
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			query := strings.TrimSpace(v.input.Value())
			if query == "" {
				return v, nil
			}
			v.statusbar.SetState(status.StateSearching)
			return v, v.performSearch(query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(msg.String(), v.keymap.Down):
		v.list.MoveDown()
	case keymap.Matches(msg.String(), v.keymap.NewSearch):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}
	return v, nil
}

// performSearch runs the query off the UI loop.
func (v *View) performSearch(query string) tea.Cmd {
	engine, ctx := v.engine, v.ctx
	return func() tea.Msg {
		if engine == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchEngine}
		}
		resp := engine.Query(ctx, query, domain.QueryOptions{Locale: domain.DefaultLocale})
		return messages.SearchCompleted{Query: query, Response: resp}
	}
}

// Rebuild starts a full index rebuild off the UI loop.
func (v *View) Rebuild() tea.Cmd {
	if v.engine == nil {
		return func() tea.Msg { return messages.ErrorOccurred{Err: ErrNoSearchEngine} }
	}
	v.statusbar.SetState(status.StateRebuilding)
	engine, ctx := v.engine, v.ctx
	return func() tea.Msg {
		stats, err := engine.Rebuild(ctx)
		return messages.RebuildCompleted{Stats: stats, Err: err}
	}
}

// handleSearchCompleted shows a query response.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	resp := msg.Response
	v.list.SetResults(resp.Results)

	switch resp.Status {
	case domain.QueryStatusUnavailable:
		v.err = resp.Err
		v.statusbar.SetState(status.StateUnavailable)
		return
	case domain.QueryStatusNoMatches:
		v.err = nil
		v.statusbar.SetState(status.StateNoMatches)
		return
	case domain.QueryStatusOK:
	}

	v.err = nil
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(resp.TotalHits)
	v.focusInput = false
	v.input.Blur()
}

// handleRebuildCompleted reports a finished rebuild.
func (v *View) handleRebuildCompleted(msg messages.RebuildCompleted) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage(fmt.Sprintf("Indexed %d pages", msg.Stats.Documents))
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{
		v.styles.Title.Render("Wiki Search"), "",
		v.input.View(), "",
	}
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input, status
	v.statusbar.SetWidth(width)
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// Results returns the current results.
func (v *View) Results() []domain.QueryResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to input mode with no results.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults(nil)
	v.err = nil
	v.statusbar.Clear()
}
