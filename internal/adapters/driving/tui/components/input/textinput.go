// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/styles"
)

// minWidth is the narrowest the text field gets.
const minWidth = 20

// QueryInput is a single-line query field.
type QueryInput struct {
	field  textinput.Model
	styles *styles.Styles
}

// NewQueryInput creates a focused query input.
func NewQueryInput(s *styles.Styles) *QueryInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Search the wiki..."
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	return &QueryInput{field: ti, styles: s}
}

// Init starts the cursor blink.
func (q *QueryInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards messages to the text field.
func (q *QueryInput) Update(msg tea.Msg) (*QueryInput, tea.Cmd) {
	var cmd tea.Cmd
	q.field, cmd = q.field.Update(msg)
	return q, cmd
}

// View renders the labelled input.
func (q *QueryInput) View() string {
	label := q.styles.Title.Render("Query: ")
	field := q.styles.InputField.Render(q.field.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current query.
func (q *QueryInput) Value() string {
	return q.field.Value()
}

// SetValue replaces the current query.
func (q *QueryInput) SetValue(value string) {
	q.field.SetValue(value)
}

// Focus gives the field keyboard focus.
func (q *QueryInput) Focus() tea.Cmd {
	return q.field.Focus()
}

// Blur removes keyboard focus.
func (q *QueryInput) Blur() {
	q.field.Blur()
}

// Focused reports whether the field has focus.
func (q *QueryInput) Focused() bool {
	return q.field.Focused()
}

// SetWidth fits the field into width columns, label included.
func (q *QueryInput) SetWidth(width int) {
	q.field.Width = max(width-12, minWidth)
}
