package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	assert.Equal(t, "menu", ViewMenu.String())
	assert.Equal(t, "search", ViewSearch.String())
	assert.Equal(t, "pages", ViewPages.String())
	assert.Equal(t, "settings", ViewSettings.String())
	assert.Equal(t, "help", ViewHelp.String())
	assert.Equal(t, "unknown", ViewType(99).String())
}
