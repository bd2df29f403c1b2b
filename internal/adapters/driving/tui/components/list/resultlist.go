// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

// linesPerResult is the height of one rendered result.
const linesPerResult = 3

// ResultList displays query results in a navigable list.
type ResultList struct {
	results  []domain.QueryResult
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates an empty result list.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ResultList{styles: s, width: 80, height: 10}
}

// View renders the visible window of results around the selection.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	lines := []string{
		r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.results))),
		"",
	}

	visible := max((r.height-2)/linesPerResult, 1)
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.results))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, r.results[i]))
	}
	return strings.Join(lines, "\n")
}

// renderResult formats one result as title, description and path lines.
func (r *ResultList) renderResult(index int, result domain.QueryResult) string {
	indicator := "  "
	title := truncate(result.Title, max(r.width-4, 10))
	if title == "" {
		title = "(Untitled)"
	}

	var titleLine string
	if index == r.selected {
		indicator = "> "
		titleLine = r.styles.Selected.Render(indicator + title)
	} else {
		titleLine = r.styles.Normal.Render(indicator + title)
	}

	description := r.styles.Muted.Render("    " + truncate(result.Description, max(r.width-6, 20)))
	path := r.styles.Path.Render("    /" + result.Locale + "/" + result.Path)

	return titleLine + "\n" + description + "\n" + path
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// SetResults replaces the results and resets the selection.
func (r *ResultList) SetResults(results []domain.QueryResult) {
	r.results = results
	r.selected = 0
}

// Results returns the current results.
func (r *ResultList) Results() []domain.QueryResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedResult returns the selected result, or nil when empty.
func (r *ResultList) SelectedResult() *domain.QueryResult {
	if len(r.results) == 0 {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves the selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves the selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}
