// Package settings provides the settings view for the TUI.
// It shows the embedding provider and index backend and lets the user
// switch either one.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driving"
)

// ErrNoSettingsService indicates that no settings service was provided.
var ErrNoSettingsService = errors.New("settings service not available")

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionEmbedding
	SectionIndex
)

const (
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
)

// View is the settings view.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.SettingsService

	settings   *domain.AppSettings
	validation error
	err        error
	saved      bool

	section  Section
	selected int
	// editingKey is true while the API key input has focus.
	editingKey bool
	apiKey     textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, service driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	apiKey := textinput.New()
	apiKey.Placeholder = "Enter API key"
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.CharLimit = 256

	return &View{
		styles:  s,
		keymap:  keymap.DefaultKeyMap(),
		service: service,
		section: SectionOverview,
		apiKey:  apiKey,
		width:   80,
		height:  24,
	}
}

// Init loads the current settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

func (v *View) loadSettings() tea.Cmd {
	service := v.service
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		settings, err := service.Get()
		if err != nil {
			return messages.SettingsLoaded{Err: err}
		}
		return messages.SettingsLoaded{Settings: settings, Validation: service.Validate()}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.settings = msg.Settings
			v.validation = msg.Validation
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.saved = true
		v.backToOverview()
		return v, v.loadSettings()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	// Cursor blinks while the key input has focus.
	if v.editingKey {
		var cmd tea.Cmd
		v.apiKey, cmd = v.apiKey.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.backToOverview()
		return v, nil
	}
	if v.settings == nil {
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionEmbedding:
		return v.handleListKeys(msg, len(domain.AllEmbeddingProviders()), v.embeddingNeedsKey, v.saveEmbedding)
	case SectionIndex:
		return v.handleListKeys(msg, len(domain.AllIndexBackends()), v.indexTakesKey, v.saveIndex)
	}
	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Matches(msg.String(), v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(msg.String(), v.keymap.Down):
		if v.selected < 1 {
			v.selected++
		}
	case keymap.Matches(msg.String(), v.keymap.Submit):
		v.saved = false
		if v.selected == 0 {
			v.section = SectionEmbedding
			v.selected = indexOf(domain.AllEmbeddingProviders(), v.settings.Embedding.Provider)
		} else {
			v.section = SectionIndex
			v.selected = indexOf(domain.AllIndexBackends(), v.settings.Index.Backend)
		}
	}
	return v, nil
}

// handleListKeys drives a provider or backend picker. takesKey reports
// whether the highlighted entry accepts an API key.
func (v *View) handleListKeys(msg tea.KeyMsg, n int, takesKey func() bool, save func() tea.Cmd) (*View, tea.Cmd) {
	if v.editingKey {
		switch {
		case msg.String() == keyTab || msg.String() == keyShiftTab:
			v.editingKey = false
			v.apiKey.Blur()
			return v, nil
		case keymap.Matches(msg.String(), v.keymap.Submit):
			return v, save()
		}
		var cmd tea.Cmd
		v.apiKey, cmd = v.apiKey.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(msg.String(), v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(msg.String(), v.keymap.Down):
		if v.selected < n-1 {
			v.selected++
		}
	case msg.String() == keyTab:
		if takesKey() {
			v.editingKey = true
			return v, v.apiKey.Focus()
		}
	case keymap.Matches(msg.String(), v.keymap.Submit):
		return v, save()
	}
	return v, nil
}

// embeddingNeedsKey reports whether the highlighted provider takes a key.
func (v *View) embeddingNeedsKey() bool {
	return domain.AllEmbeddingProviders()[v.selected].RequiresAPIKey()
}

// indexTakesKey reports whether the highlighted backend takes a key.
func (v *View) indexTakesKey() bool {
	return domain.AllIndexBackends()[v.selected].IsRemote()
}

// saveEmbedding switches to the highlighted provider with its default
// model. The stored key is kept when the provider does not change.
func (v *View) saveEmbedding() tea.Cmd {
	provider := domain.AllEmbeddingProviders()[v.selected]
	key := v.apiKey.Value()
	if key == "" && provider == v.settings.Embedding.Provider {
		key = v.settings.Embedding.APIKey
	}
	if provider.RequiresAPIKey() && key == "" && !v.editingKey {
		v.editingKey = true
		return v.apiKey.Focus()
	}

	service := v.service
	model := domain.DefaultEmbeddingModels()[provider]
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Err: service.SetEmbeddingProvider(provider, model, key)}
	}
}

// saveIndex switches to the highlighted backend, keeping the configured
// host and key unless a new key was typed.
func (v *View) saveIndex() tea.Cmd {
	backend := domain.AllIndexBackends()[v.selected]
	host := v.settings.Index.Host
	key := v.apiKey.Value()
	if key == "" {
		key = v.settings.Index.APIKey
	}

	service := v.service
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsSaved{Err: ErrNoSettingsService}
		}
		return messages.SettingsSaved{Err: service.SetIndexBackend(backend, host, key)}
	}
}

func (v *View) backToOverview() {
	v.section = SectionOverview
	v.selected = 0
	v.editingKey = false
	v.apiKey.SetValue("")
	v.apiKey.Blur()
}

func indexOf[T comparable](items []T, want T) int {
	for i, item := range items {
		if item == want {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		if v.err == nil {
			b.WriteString(v.styles.Muted.Render("Loading settings..."))
		}
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionEmbedding:
		b.WriteString(v.renderEmbeddingSelect())
	case SectionIndex:
		b.WriteString(v.renderIndexSelect())
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(v.helpLine()))
	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	emb := v.settings.Embedding
	embeddingValue := "Not Set"
	if emb.Provider != "" {
		embeddingValue = fmt.Sprintf("%s (%s, %d dims)", emb.Provider.Description(), emb.Model, emb.Dimensions)
	}
	idx := v.settings.Index
	indexValue := "Not Set"
	if idx.Backend != "" {
		indexValue = idx.Backend.Description()
		if idx.Backend.IsRemote() {
			indexValue += " at " + idx.Host
		}
	}

	items := []struct {
		label      string
		value      string
		configured bool
	}{
		{"Embedding Provider", embeddingValue, emb.IsConfigured()},
		{"Index Backend", indexValue, idx.IsConfigured()},
	}

	for i, item := range items {
		line := fmt.Sprintf("%s: %s", item.label, item.value)
		if i == v.selected {
			b.WriteString("> " + v.styles.Selected.Render(line))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(line))
		}
		if item.configured {
			b.WriteString(" " + v.styles.Success.Render("[configured]"))
		} else {
			b.WriteString(" " + v.styles.Warning.Render("[incomplete]"))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.validation != nil {
		b.WriteString(v.styles.Warning.Render("Warning: " + v.validation.Error()))
	} else {
		b.WriteString(v.styles.Success.Render("Configuration is valid"))
	}
	b.WriteString("\n")
	if v.saved {
		b.WriteString(v.styles.Muted.Render("Saved. Restart wikisearch to apply."))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderEmbeddingSelect() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Select Embedding Provider"))
	b.WriteString("\n\n")

	defaults := domain.DefaultEmbeddingModels()
	for i, provider := range domain.AllEmbeddingProviders() {
		current := provider == v.settings.Embedding.Provider
		b.WriteString(v.renderOption(i, provider.Description(), current))
		b.WriteString(v.styles.Muted.Render("    Model: " + defaults[provider]))
		b.WriteString("\n")
	}

	if v.embeddingNeedsKey() {
		b.WriteString(v.renderKeyInput())
	}
	return b.String()
}

func (v *View) renderIndexSelect() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Select Index Backend"))
	b.WriteString("\n\n")

	for i, backend := range domain.AllIndexBackends() {
		current := backend == v.settings.Index.Backend
		b.WriteString(v.renderOption(i, backend.Description(), current))
		if backend.IsRemote() {
			b.WriteString(v.styles.Muted.Render("    Host: " + v.settings.Index.Host))
		} else {
			b.WriteString(v.styles.Muted.Render("    In memory, lost when wikisearch exits"))
		}
		b.WriteString("\n")
	}

	if v.indexTakesKey() {
		b.WriteString(v.renderKeyInput())
	}
	return b.String()
}

func (v *View) renderOption(i int, label string, current bool) string {
	line := label
	if current {
		line += " (current)"
	}
	if i == v.selected && !v.editingKey {
		return "> " + v.styles.Selected.Render(line) + "\n"
	}
	return "  " + v.styles.Normal.Render(line) + "\n"
}

func (v *View) renderKeyInput() string {
	return "\n" + v.styles.Normal.Render("API Key:") + "\n" + v.apiKey.View() + "\n"
}

func (v *View) helpLine() string {
	switch {
	case v.section == SectionOverview:
		return "[j/k] Navigate  [Enter] Edit  [esc] Back"
	case v.editingKey:
		return "[tab] Back to list  [Enter] Save  [esc] Cancel"
	default:
		return "[j/k] Navigate  [tab] API key  [Enter] Select  [esc] Cancel"
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Reset returns the view to the overview.
func (v *View) Reset() {
	v.backToOverview()
	v.err = nil
	v.saved = false
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Selected returns the highlighted index within the active section.
func (v *View) Selected() int {
	return v.selected
}

// EditingKey reports whether the API key input has focus.
func (v *View) EditingKey() bool {
	return v.editingKey
}

// Err returns the last load or save error.
func (v *View) Err() error {
	return v.err
}
