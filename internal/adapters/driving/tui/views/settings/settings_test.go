package settings

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

// MockSettingsService is a mock implementation of driving.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppSettings), args.Error(1)
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	return m.Called(settings).Error(0)
}

func (m *MockSettingsService) Set(key, value string) error {
	return m.Called(key, value).Error(0)
}

func (m *MockSettingsService) SetEmbeddingProvider(provider domain.EmbeddingProvider, model, apiKey string) error {
	return m.Called(provider, model, apiKey).Error(0)
}

func (m *MockSettingsService) SetIndexBackend(backend domain.IndexBackend, host, apiKey string) error {
	return m.Called(backend, host, apiKey).Error(0)
}

func (m *MockSettingsService) Validate() error {
	return m.Called().Error(0)
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return m.Called().Get(0).(domain.AppSettings)
}

func (m *MockSettingsService) ValidateEmbeddingConfig() error {
	return m.Called().Error(0)
}

func testSettings() *domain.AppSettings {
	s := domain.DefaultAppSettings()
	s.Embedding.APIKey = "co-key"
	s.Index.APIKey = "qd-key"
	return &s
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// loadedView returns a view that has processed its initial load.
func loadedView(t *testing.T, svc *MockSettingsService) *View {
	t.Helper()
	v := NewView(styles.DefaultStyles(), svc)
	v.SetDimensions(100, 30)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())
	return v
}

func newService(settings *domain.AppSettings) *MockSettingsService {
	svc := &MockSettingsService{}
	svc.On("Get").Return(settings, nil)
	svc.On("Validate").Return(nil)
	return svc
}

func TestView_Init_LoadsSettings(t *testing.T) {
	svc := newService(testSettings())

	v := loadedView(t, svc)

	require.NotNil(t, v.Settings())
	assert.NoError(t, v.Err())
	out := v.View()
	assert.Contains(t, out, "Embedding Provider: Cohere")
	assert.Contains(t, out, "Index Backend: Qdrant")
	assert.Contains(t, out, "http://localhost:6333")
	assert.Contains(t, out, "Configuration is valid")
	svc.AssertExpectations(t)
}

func TestView_Init_ShowsValidationWarning(t *testing.T) {
	svc := &MockSettingsService{}
	svc.On("Get").Return(testSettings(), nil)
	svc.On("Validate").Return(errors.New("embedding.apikey is required"))

	v := loadedView(t, svc)

	assert.Contains(t, v.View(), "Warning: embedding.apikey is required")
}

func TestView_Init_LoadError(t *testing.T) {
	svc := &MockSettingsService{}
	svc.On("Get").Return(nil, errors.New("config unreadable"))

	v := loadedView(t, svc)

	assert.EqualError(t, v.Err(), "config unreadable")
	assert.Nil(t, v.Settings())
	assert.Contains(t, v.View(), "config unreadable")
	assert.NotContains(t, v.View(), "Loading settings")
}

func TestView_NoService(t *testing.T) {
	v := NewView(nil, nil)

	msg := v.Init()()

	loaded, ok := msg.(messages.SettingsLoaded)
	require.True(t, ok)
	assert.ErrorIs(t, loaded.Err, ErrNoSettingsService)
}

func TestView_Loading(t *testing.T) {
	v := NewView(nil, newService(testSettings()))

	assert.Contains(t, v.View(), "Loading settings...")
}

func TestView_EscFromOverviewGoesToMenu(t *testing.T) {
	v := loadedView(t, newService(testSettings()))

	_, cmd := v.Update(key("esc"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_OverviewNavigation(t *testing.T) {
	v := loadedView(t, newService(testSettings()))

	v.Update(key("j"))
	assert.Equal(t, 1, v.Selected())
	v.Update(key("j"))
	assert.Equal(t, 1, v.Selected())
	v.Update(key("k"))
	assert.Equal(t, 0, v.Selected())
}

func TestView_EnterEmbeddingSelectsCurrentProvider(t *testing.T) {
	settings := testSettings()
	settings.Embedding.Provider = domain.EmbeddingProviderOllama
	v := loadedView(t, newService(settings))

	v.Update(key("enter"))

	assert.Equal(t, SectionEmbedding, v.Section())
	assert.Equal(t, 2, v.Selected())
	assert.Contains(t, v.View(), "Select Embedding Provider")
	assert.Contains(t, v.View(), "Ollama (local) (current)")

	v.Update(key("esc"))
	assert.Equal(t, SectionOverview, v.Section())
}

func TestView_SaveLocalEmbeddingProvider(t *testing.T) {
	svc := newService(testSettings())
	svc.On("SetEmbeddingProvider", domain.EmbeddingProviderOllama, "nomic-embed-text", "").Return(nil)
	v := loadedView(t, svc)

	v.Update(key("enter"))
	v.Update(key("down"))
	v.Update(key("down"))
	_, cmd := v.Update(key("enter"))

	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, messages.SettingsSaved{}, msg)

	_, reload := v.Update(msg)
	assert.Equal(t, SectionOverview, v.Section())
	require.NotNil(t, reload)
	v.Update(reload())
	assert.Contains(t, v.View(), "Restart wikisearch to apply")
	svc.AssertExpectations(t)
}

func TestView_SameProviderKeepsStoredKey(t *testing.T) {
	svc := newService(testSettings())
	svc.On("SetEmbeddingProvider", domain.EmbeddingProviderCohere, "multilingual-22-12", "co-key").Return(nil)
	v := loadedView(t, svc)

	v.Update(key("enter"))
	_, cmd := v.Update(key("enter"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.SettingsSaved{}, cmd())
	svc.AssertExpectations(t)
}

func TestView_RemoteProviderAsksForKey(t *testing.T) {
	svc := newService(testSettings())
	svc.On("SetEmbeddingProvider", domain.EmbeddingProviderOpenAI, "text-embedding-3-small", "sk").Return(nil)
	v := loadedView(t, svc)

	v.Update(key("enter"))
	v.Update(key("down"))
	v.Update(key("enter"))
	require.True(t, v.EditingKey())

	v.Update(key("s"))
	v.Update(key("k"))
	_, cmd := v.Update(key("enter"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.SettingsSaved{}, cmd())
	svc.AssertExpectations(t)
}

func TestView_TabTogglesKeyInput(t *testing.T) {
	v := loadedView(t, newService(testSettings()))
	v.Update(key("enter"))

	v.Update(key("tab"))
	assert.True(t, v.EditingKey())
	assert.Contains(t, v.View(), "API Key:")

	v.Update(key("tab"))
	assert.False(t, v.EditingKey())

	// Ollama takes no key.
	v.Update(key("down"))
	v.Update(key("down"))
	v.Update(key("tab"))
	assert.False(t, v.EditingKey())
}

func TestView_SaveIndexBackendKeepsHostAndKey(t *testing.T) {
	svc := newService(testSettings())
	svc.On("SetIndexBackend", domain.IndexBackendBleve, "http://localhost:6333", "qd-key").Return(nil)
	v := loadedView(t, svc)

	v.Update(key("down"))
	v.Update(key("enter"))
	require.Equal(t, SectionIndex, v.Section())
	assert.Contains(t, v.View(), "In memory")

	v.Update(key("down"))
	_, cmd := v.Update(key("enter"))

	require.NotNil(t, cmd)
	assert.Equal(t, messages.SettingsSaved{}, cmd())
	svc.AssertExpectations(t)
}

func TestView_SaveError(t *testing.T) {
	svc := newService(testSettings())
	svc.On("SetIndexBackend", domain.IndexBackendQdrant, "http://localhost:6333", "qd-key").
		Return(errors.New("write failed"))
	v := loadedView(t, svc)

	v.Update(key("down"))
	v.Update(key("enter"))
	_, cmd := v.Update(key("enter"))
	require.NotNil(t, cmd)
	_, reload := v.Update(cmd())

	assert.Nil(t, reload)
	assert.EqualError(t, v.Err(), "write failed")
	assert.Equal(t, SectionIndex, v.Section())
}

func TestView_Reset(t *testing.T) {
	v := loadedView(t, newService(testSettings()))
	v.Update(key("enter"))
	v.Update(key("tab"))
	v.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	v.Reset()

	assert.Equal(t, SectionOverview, v.Section())
	assert.False(t, v.EditingKey())
	assert.NoError(t, v.Err())
}
