package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_Long(t *testing.T) {
	assert.Contains(t, searchCmd.Long, "hybrid search")
	assert.Contains(t, searchCmd.Long, "semantic")
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "search")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "search", "how", "to", "install", "--path", "home", "--locale", "fr")

	require.NoError(t, err)
	assert.Equal(t, "how to install", ts.search.lastQuery)
	assert.Equal(t, domain.QueryOptions{Path: "home", Locale: "fr"}, ts.search.lastOpts)
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] Install (Page)")
	assert.Contains(t, out, "[2] Requirements (Install)")
	assert.Contains(t, out, "/en/guides/install")
}

func TestSearchCmd_NoMatches(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.search.response = domain.NewQueryResponse(nil)

	out, err := execute(t, "", "search", "nothing")

	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_Unavailable(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	cause := &domain.VectorSearchError{Err: errors.New("connection refused")}
	ts.search.response = domain.UnavailableResponse(cause)

	out, err := execute(t, "", "search", "install")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search unavailable")
	var vecErr *domain.VectorSearchError
	assert.ErrorAs(t, err, &vecErr)
	assert.NotContains(t, out, "No results found.")
}

func TestSearchCmd_JSON(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "", "search", "--json", "install")
	require.NoError(t, err)

	var resp domain.QueryResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, domain.QueryStatusOK, resp.Status)
	assert.Equal(t, 2, resp.TotalHits)
	assert.Equal(t, "Install", resp.Results[0].Title)
	assert.Empty(t, resp.Suggestions)
}

func TestSearchCmd_NotConfigured(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	searchEngine = nil
	searchErr = domain.ErrEmbeddingUnavailable

	_, err := execute(t, "", "search", "install")

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestSearchCmd_InMemoryIndex(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.settings.settings.Index.Backend = domain.IndexBackendBleve

	_, err := execute(t, "", "search", "install")

	assert.ErrorIs(t, err, ErrInMemoryIndex)
	assert.Contains(t, err.Error(), "wikisearch tui")
	assert.Empty(t, ts.search.lastQuery)
}
