// Package pages provides the corpus page browser view for the TUI.
package pages

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driving"
)

// ErrNoPageService indicates that no page service was provided.
var ErrNoPageService = errors.New("page service not available")

const timeFormat = "2006-01-02 15:04"

// View lists the pages of the corpus.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.PageService
	ctx     context.Context

	pages        []domain.Document
	selected     int
	scrollOffset int
	showDetails  bool
	loading      bool
	err          error

	width  int
	height int
	ready  bool
}

// NewView creates a new pages view.
func NewView(s *styles.Styles, service driving.PageService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		service: service,
		ctx:     context.Background(),
		width:   80,
		height:  24,
	}
}

// WithContext sets the context used to load pages.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts loading the pages.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadPages()
}

// loadPages returns a command that lists the corpus.
func (v *View) loadPages() tea.Cmd {
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.PagesLoaded{Err: ErrNoPageService}
		}
		docs, err := service.List(ctx)
		return messages.PagesLoaded{Pages: docs, Err: err}
	}
}

// Update handles messages for the pages view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.PagesLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.pages = append([]domain.Document(nil), msg.Pages...)
		sort.Slice(v.pages, func(i, j int) bool { return v.pages[i].Path < v.pages[j].Path })
		v.selected = min(v.selected, max(len(v.pages)-1, 0))
		v.adjustScroll()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		if v.showDetails {
			v.showDetails = false
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(msg.String(), v.keymap.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case keymap.Matches(msg.String(), v.keymap.Down):
		if v.selected < len(v.pages)-1 {
			v.selected++
			v.adjustScroll()
		}
	case keymap.Matches(msg.String(), v.keymap.Submit):
		if len(v.pages) > 0 {
			v.showDetails = !v.showDetails
		}
	case keymap.Matches(msg.String(), v.keymap.Reload):
		v.loading = true
		return v, v.loadPages()
	}
	return v, nil
}

// adjustScroll keeps the selected page visible.
func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	return max(v.height-8, 1)
}

// View renders the pages view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Pages (%d)", len(v.pages))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading pages..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.pages) == 0:
		b.WriteString(v.styles.Muted.Render("No pages in the corpus."))
	case v.showDetails:
		b.WriteString(v.renderDetails(&v.pages[v.selected]))
	default:
		b.WriteString(v.renderList())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("[j/k] Navigate  [Enter] Details  [r] Reload  [esc] Back"))
	return b.String()
}

func (v *View) renderList() string {
	var b strings.Builder
	visible := v.visibleItemCount()
	end := min(v.scrollOffset+visible, len(v.pages))
	for i := v.scrollOffset; i < end; i++ {
		b.WriteString(v.renderPage(i, &v.pages[i]))
		b.WriteString("\n")
	}
	if len(v.pages) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]", v.scrollOffset+1, end, len(v.pages))))
	}
	return b.String()
}

func (v *View) renderPage(index int, doc *domain.Document) string {
	line := fmt.Sprintf("%-*s %s", max(v.width/2-4, 10), doc.Path, doc.Title)
	status := v.styles.Muted.Render("[" + Status(*doc) + "]")
	if index == v.selected {
		return "> " + v.styles.Selected.Render(line) + " " + status
	}
	return "  " + v.styles.Normal.Render(line) + " " + status
}

func (v *View) renderDetails(doc *domain.Document) string {
	rows := [][2]string{
		{"Path", doc.Path},
		{"Title", doc.Title},
		{"Description", doc.Description},
		{"Locale", doc.LocaleCode},
		{"Status", Status(*doc)},
		{"Updated", doc.UpdatedAt.Format(timeFormat)},
		{"Render", fmt.Sprintf("%d bytes", len(doc.Render))},
	}
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("%-12s", r[0])))
		b.WriteString(" ")
		b.WriteString(v.styles.Normal.Render(r[1]))
		b.WriteString("\n")
	}
	return b.String()
}

// Status describes the visibility of a page.
func Status(doc domain.Document) string {
	switch {
	case doc.IsPrivate:
		return "private"
	case !doc.IsPublished:
		return "draft"
	default:
		return "published"
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Pages returns the loaded pages.
func (v *View) Pages() []domain.Document {
	return v.pages
}

// Selected returns the index of the selected page.
func (v *View) Selected() int {
	return v.selected
}

// ShowingDetails reports whether the details pane is open.
func (v *View) ShowingDetails() bool {
	return v.showDetails
}

// Loading reports whether pages are being loaded.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last load error.
func (v *View) Err() error {
	return v.err
}
