package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikisearch/internal/adapters/driving/cli"
	"github.com/custodia-labs/wikisearch/internal/core/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"WIKISEARCH_EMBEDDING_API_KEY", "COHERE_API_KEY",
		"WIKISEARCH_INDEX_HOST", "WIKISEARCH_INDEX_API_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestBootstrap_WithoutEmbeddingKey(t *testing.T) {
	clearEnv(t)
	configDir := t.TempDir()
	dataDir := t.TempDir()

	svc, err := bootstrap(context.Background(), cli.Options{ConfigDir: configDir, DataDir: dataDir})
	require.NoError(t, err)
	defer svc.Close()

	assert.Nil(t, svc.Search)
	assert.ErrorIs(t, svc.SearchErr, domain.ErrEmbeddingUnavailable)
	assert.Equal(t, dataDir, svc.DataDir)
	assert.FileExists(t, filepath.Join(dataDir, "wiki.db"))

	// Pages still work without a search engine.
	ctx := context.Background()
	require.NoError(t, svc.Pages.Save(ctx, &domain.Document{
		Path:        "home",
		Title:       "Home",
		Render:      "<h1>Home</h1>",
		IsPublished: true,
	}))
	pages, err := svc.Pages.List(ctx)
	require.NoError(t, err)
	assert.Len(t, pages, 1)
}

func TestBootstrap_BuildsSearchEngine(t *testing.T) {
	clearEnv(t)
	configDir := t.TempDir()
	config := `[embedding]
provider = "cohere"
api_key = "co-test"

[index]
backend = "bleve"
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(config), 0600))

	svc, err := bootstrap(context.Background(), cli.Options{ConfigDir: configDir, DataDir: t.TempDir()})
	require.NoError(t, err)
	defer svc.Close()

	require.NoError(t, svc.SearchErr)
	require.NotNil(t, svc.Search)

	// A blank query never reaches the backends.
	resp := svc.Search.Query(context.Background(), "   ", domain.QueryOptions{})
	assert.Equal(t, domain.QueryStatusNoMatches, resp.Status)
}

func TestBootstrap_DataDirFromSettings(t *testing.T) {
	clearEnv(t)
	configDir := t.TempDir()
	dataDir := filepath.Join(t.TempDir(), "corpus")
	config := "[corpus]\ndata_dir = \"" + filepath.ToSlash(dataDir) + "\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte(config), 0600))

	svc, err := bootstrap(context.Background(), cli.Options{ConfigDir: configDir})
	require.NoError(t, err)
	defer svc.Close()

	assert.Equal(t, filepath.ToSlash(dataDir), svc.DataDir)
	assert.DirExists(t, dataDir)
}

func TestBootstrap_UnreadableConfig(t *testing.T) {
	configDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("not = [toml"), 0600))

	_, err := bootstrap(context.Background(), cli.Options{ConfigDir: configDir, DataDir: t.TempDir()})

	assert.Error(t, err)
}
