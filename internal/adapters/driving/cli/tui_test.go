package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/logger"
)

func TestTUICmd_Registered(t *testing.T) {
	cmd, _, err := rootCmd.Find([]string{"tui"})

	assert.NoError(t, err)
	assert.Equal(t, "tui", cmd.Name())
}

func TestTUICmd_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	searchEngine = nil
	searchErr = domain.ErrEmbeddingUnavailable

	_, err := execute(t, "", "tui")

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestSilenceLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.Output()
	logger.SetOutput(&buf)
	defer logger.SetOutput(prev)

	restore := silenceLogger()
	assert.Equal(t, io.Discard, logger.Output())
	logger.Error("rebuild failed")
	logger.Warn("index unavailable")
	restore()

	assert.Same(t, &buf, logger.Output())
	assert.Empty(t, buf.String())
	logger.Warn("after")
	assert.Contains(t, buf.String(), "[WARN] after")
}
