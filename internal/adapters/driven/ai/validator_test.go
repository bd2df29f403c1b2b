package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

func TestNewConfigValidator(t *testing.T) {
	require.NotNil(t, NewConfigValidator())
}

func TestConfigValidator_ValidateEmbedding_Unconfigured(t *testing.T) {
	validator := NewConfigValidator()

	assert.NoError(t, validator.ValidateEmbedding(nil))
	assert.NoError(t, validator.ValidateEmbedding(&domain.EmbeddingSettings{Model: "test-model"}))
	assert.NoError(t, validator.ValidateEmbedding(&domain.EmbeddingSettings{
		Provider: domain.EmbeddingProviderCohere,
		Model:    "multilingual-22-12",
	}))
}

func TestConfigValidator_ValidateEmbedding_PingsProvider(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"valid":false}`))
	}))
	defer server.Close()

	err := NewConfigValidator().ValidateEmbedding(&domain.EmbeddingSettings{
		Provider: domain.EmbeddingProviderCohere,
		Model:    "multilingual-22-12",
		APIKey:   "bad",
		BaseURL:  server.URL,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid")
}

func TestConfigValidator_ValidateIndex(t *testing.T) {
	validator := NewConfigValidator()

	t.Run("unconfigured", func(t *testing.T) {
		assert.NoError(t, validator.ValidateIndex(nil))
		assert.NoError(t, validator.ValidateIndex(&domain.IndexSettings{Backend: domain.IndexBackendQdrant}))
	})

	t.Run("bleve is always reachable", func(t *testing.T) {
		assert.NoError(t, validator.ValidateIndex(&domain.IndexSettings{Backend: domain.IndexBackendBleve}))
	})

	t.Run("qdrant reachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"title":"qdrant"}`))
		}))
		defer server.Close()

		assert.NoError(t, validator.ValidateIndex(&domain.IndexSettings{
			Backend: domain.IndexBackendQdrant,
			Host:    server.URL,
		}))
	})

	t.Run("qdrant unreachable", func(t *testing.T) {
		assert.Error(t, validator.ValidateIndex(&domain.IndexSettings{
			Backend: domain.IndexBackendQdrant,
			Host:    "http://127.0.0.1:1",
		}))
	})
}
