package pages

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikisearch/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

type mockPageService struct {
	pages   []domain.Document
	listErr error
	lists   int
}

func (m *mockPageService) List(context.Context) ([]domain.Document, error) {
	m.lists++
	return m.pages, m.listErr
}

func (m *mockPageService) Get(context.Context, string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *mockPageService) Save(context.Context, *domain.Document) error { return nil }
func (m *mockPageService) Delete(context.Context, string) error { return nil }

func corpus() []domain.Document {
	return []domain.Document{
		{Path: "guides/upgrade", Title: "Upgrade", IsPublished: true},
		{Path: "guides/install", Title: "Install", Description: "How to install", IsPublished: true},
		{Path: "internal/notes", Title: "Notes", IsPrivate: true},
	}
}

func loadedView(t *testing.T, svc *mockPageService) *View {
	t.Helper()
	v := NewView(nil, svc)
	v.SetDimensions(100, 30)
	cmd := v.Init()
	require.NotNil(t, cmd)
	assert.True(t, v.Loading())
	v.Update(cmd())
	return v
}

func TestView_Init_LoadsSortedPages(t *testing.T) {
	svc := &mockPageService{pages: corpus()}
	v := loadedView(t, svc)

	require.Len(t, v.Pages(), 3)
	assert.False(t, v.Loading())
	assert.Equal(t, "guides/install", v.Pages()[0].Path)
	assert.Equal(t, "internal/notes", v.Pages()[2].Path)
	assert.Contains(t, v.View(), "Pages (3)")
}

func TestView_LoadError(t *testing.T) {
	v := loadedView(t, &mockPageService{listErr: errors.New("db locked")})

	assert.EqualError(t, v.Err(), "db locked")
	assert.Contains(t, v.View(), "db locked")
}

func TestView_NoService(t *testing.T) {
	v := NewView(nil, nil)

	msg := v.Init()()

	loaded, ok := msg.(messages.PagesLoaded)
	require.True(t, ok)
	assert.ErrorIs(t, loaded.Err, ErrNoPageService)
}

func TestView_Empty(t *testing.T) {
	v := loadedView(t, &mockPageService{})

	assert.Contains(t, v.View(), "No pages in the corpus.")
}

func TestView_NavigateAndDetails(t *testing.T) {
	v := loadedView(t, &mockPageService{pages: corpus()})

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, v.Selected())

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.Selected())

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, v.ShowingDetails())
	assert.Contains(t, v.View(), "How to install")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, v.ShowingDetails())
}

func TestView_Esc_ReturnsToMenu(t *testing.T) {
	v := loadedView(t, &mockPageService{pages: corpus()})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_Reload(t *testing.T) {
	svc := &mockPageService{pages: corpus()}
	v := loadedView(t, svc)
	svc.pages = svc.pages[:1]

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	require.NotNil(t, cmd)
	v.Update(cmd())

	assert.Equal(t, 2, svc.lists)
	assert.Len(t, v.Pages(), 1)
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "published", Status(domain.Document{IsPublished: true}))
	assert.Equal(t, "draft", Status(domain.Document{}))
	assert.Equal(t, "private", Status(domain.Document{IsPublished: true, IsPrivate: true}))
}
