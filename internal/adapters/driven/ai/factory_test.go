package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

// cohereServer answers the key check and embeds every text as [len, 1].
func cohereServer(t *testing.T, validKey bool) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/check-api-key":
			_ = json.NewEncoder(w).Encode(map[string]bool{"valid": validKey})
		case "/v1/embed":
			var req struct {
				Texts []string `json:"texts"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			embeddings := make([][]float64, len(req.Texts))
			for i, text := range req.Texts {
				embeddings[i] = []float64{float64(len(text)), 1}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": embeddings})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func cohereSettings(baseURL string) *domain.EmbeddingSettings {
	return &domain.EmbeddingSettings{
		Provider:   domain.EmbeddingProviderCohere,
		Model:      "multilingual-22-12",
		APIKey:     "key",
		BaseURL:    baseURL,
		Dimensions: 2,
	}
}

func TestCreateEmbeddingService_Cohere(t *testing.T) {
	server := cohereServer(t, true)

	svc, err := CreateEmbeddingService(context.Background(), cohereSettings(server.URL))
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, "multilingual-22-12", svc.ModelName())
	assert.Equal(t, 2, svc.Dimensions())

	vectors, err := svc.EmbedBatch(context.Background(), []string{"abc", "de"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{3, 1}, {2, 1}}, vectors)
}

func TestCreateEmbeddingService_DimensionsFromModel(t *testing.T) {
	settings := cohereSettings("http://unused")
	settings.Dimensions = 0

	svc, err := CreateEmbeddingService(context.Background(), settings)

	require.NoError(t, err)
	assert.Equal(t, 768, svc.Dimensions())
}

func TestCreateEmbeddingService_Unconfigured(t *testing.T) {
	_, err := CreateEmbeddingService(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)

	_, err = CreateEmbeddingService(context.Background(), &domain.EmbeddingSettings{
		Provider: domain.EmbeddingProviderOpenAI,
		Model:    "text-embedding-3-small",
	})
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestNewEmbedder_UnknownProvider(t *testing.T) {
	_, err := NewEmbedder(context.Background(), &domain.EmbeddingSettings{Provider: "voyage"})

	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestNewEmbedder_RequiresKeys(t *testing.T) {
	for _, provider := range []domain.EmbeddingProvider{
		domain.EmbeddingProviderCohere,
		domain.EmbeddingProviderOpenAI,
		domain.EmbeddingProviderGemini,
	} {
		t.Run(provider.String(), func(t *testing.T) {
			_, err := NewEmbedder(context.Background(), &domain.EmbeddingSettings{Provider: provider})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "API key is required")
		})
	}
}

func TestCreateAndValidateEmbeddingService(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		server := cohereServer(t, true)

		svc, err := CreateAndValidateEmbeddingService(context.Background(), cohereSettings(server.URL))

		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("invalid key", func(t *testing.T) {
		server := cohereServer(t, false)

		svc, err := CreateAndValidateEmbeddingService(context.Background(), cohereSettings(server.URL))

		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
		assert.Contains(t, err.Error(), "service unreachable")
		assert.Nil(t, svc)
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := CreateAndValidateEmbeddingService(context.Background(), &domain.EmbeddingSettings{})

		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})
}

func TestValidateEmbeddingConfig_Success(t *testing.T) {
	server := cohereServer(t, true)

	assert.NoError(t, ValidateEmbeddingConfig(cohereSettings(server.URL)))
}

func TestValidateEmbeddingConfig_Unreachable(t *testing.T) {
	server := cohereServer(t, false)

	err := ValidateEmbeddingConfig(cohereSettings(server.URL))

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	assert.Contains(t, err.Error(), "wikisearch settings set")
}
