package html

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

func page(render string) domain.Document {
	return domain.Document{
		Path:        "guides/install",
		Title:       "Install",
		Render:      render,
		IsPublished: true,
	}
}

func TestExtract_HeadingsAndContentInOrder(t *testing.T) {
	doc := page(`
<h1 id="intro">Intro <a class="toc-anchor">¶</a></h1>
<p class="content" id="p1">First   paragraph</p>
<h2 id="setup">Setup</h2>
<div class="content">Run the
installer</div>
<p>not selected</p>`)

	fragments, err := New().Extract(doc)

	require.NoError(t, err)
	require.Len(t, fragments, 5)

	assert.Equal(t, domain.Fragment{
		ID:            "intro",
		Kind:          domain.FragmentKindHeading,
		Tag:           domain.HeadingTag,
		Text:          "Intro",
		DocumentTitle: "Install",
		DocumentPath:  "guides/install",
	}, fragments[0])

	assert.Equal(t, domain.Fragment{
		ID:                 "p1",
		Kind:               domain.FragmentKindContent,
		Tag:                "p",
		Text:               "First paragraph",
		NearestHeadingText: "Intro",
		NearestHeadingID:   "intro",
		DocumentTitle:      "Install",
		DocumentPath:       "guides/install",
	}, fragments[1])

	assert.Equal(t, "Setup", fragments[2].Text)

	assert.Equal(t, "div", fragments[3].Tag)
	assert.Equal(t, "Run theinstaller", fragments[3].Text)
	assert.Equal(t, "Setup", fragments[3].NearestHeadingText)
	assert.Equal(t, "setup", fragments[3].NearestHeadingID)

	assert.True(t, fragments[4].IsSentinel())
	assert.Equal(t, domain.SentinelFragment(doc), fragments[4])
}

func TestExtract_ContentBeforeAnyHeading(t *testing.T) {
	fragments, err := New().Extract(page(`<p class="content">orphan</p><h3 id="x">X</h3>`))

	require.NoError(t, err)
	require.Len(t, fragments, 3)
	assert.Empty(t, fragments[0].NearestHeadingText)
	assert.Empty(t, fragments[0].NearestHeadingID)
	assert.Equal(t, domain.FragmentKindHeading, fragments[1].Kind)
}

func TestExtract_HeadingWithContentClassIsHeading(t *testing.T) {
	fragments, err := New().Extract(page(`<h4 class="content" id="h">Both</h4>`))

	require.NoError(t, err)
	require.Len(t, fragments, 2)
	assert.Equal(t, domain.FragmentKindHeading, fragments[0].Kind)
	assert.Equal(t, domain.HeadingTag, fragments[0].Tag)
}

func TestExtract_EmptyRenderYieldsSentinelOnly(t *testing.T) {
	doc := page("")

	fragments, err := New().Extract(doc)

	require.NoError(t, err)
	assert.Equal(t, []domain.Fragment{domain.SentinelFragment(doc)}, fragments)
}

func TestExtract_Deterministic(t *testing.T) {
	doc := page(`<h1 id="a">A</h1><p class="content">b</p><h2>C</h2><p class="content">d</p>`)

	first, err := New().Extract(doc)
	require.NoError(t, err)
	second, err := New().Extract(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExtract_EmptyElementKeepsEmptyText(t *testing.T) {
	fragments, err := New().Extract(page(`<h1 id="a">A</h1><div class="content">  ¶  </div>`))

	require.NoError(t, err)
	require.Len(t, fragments, 3)
	assert.Empty(t, fragments[1].Text)
	assert.Equal(t, "Install", fragments[1].EmbeddingText())
}

func TestNormaliseText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"pilcrow", "Title ¶", "Title"},
		{"newlines removed", "a\nb", "ab"},
		{"crlf removed", "a\r\nb", "ab"},
		{"tabs and spaces collapse", " a \t  b ", "a b"},
		{"only whitespace", " \n ¶ ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormaliseText(tt.in))
		})
	}
}

func TestIsHeading(t *testing.T) {
	for _, tag := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		assert.True(t, isHeading(tag), tag)
	}
	for _, tag := range []string{"h7", "h0", "p", "div", "hr", "header", ""} {
		assert.False(t, isHeading(tag), tag)
	}
}
