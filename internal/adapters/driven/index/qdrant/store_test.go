package qdrant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikisearch/internal/core/domain"
	"github.com/custodia-labs/wikisearch/internal/core/ports/driven"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
	APIKey string
	Body   map[string]any
}

// fakeServer records every request and answers with handler.
type fakeServer struct {
	mu       sync.Mutex
	requests []recordedRequest
	server   *httptest.Server
}

func newFakeServer(t *testing.T, handler func(w http.ResponseWriter, r recordedRequest)) *fakeServer {
	t.Helper()
	f := &fakeServer{}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			APIKey: r.Header.Get(apiKeyHeader),
		}
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			require.NoError(t, json.Unmarshal(data, &rec.Body))
		}
		f.mu.Lock()
		f.requests = append(f.requests, rec)
		f.mu.Unlock()
		handler(w, rec)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeServer) store(apiKey string) *Store {
	return NewStore(Config{Host: f.server.URL + "/", APIKey: apiKey})
}

func ok(w http.ResponseWriter, _ recordedRequest) {
	_, _ = w.Write([]byte(`{"result":true,"status":"ok"}`))
}

func TestNewStore_Defaults(t *testing.T) {
	s := NewStore(Config{})

	assert.Equal(t, DefaultHost, s.host)
	assert.Equal(t, DefaultTimeout, s.client.Timeout)
}

func TestStore_CreateCollection(t *testing.T) {
	f := newFakeServer(t, ok)

	err := f.store("secret").CreateCollection(context.Background(), domain.DefaultCollectionSchema("wiki"))

	require.NoError(t, err)
	require.Len(t, f.requests, 1)
	req := f.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/collections/wiki", req.Path)
	assert.Equal(t, "secret", req.APIKey)
	assert.Equal(t, map[string]any{"size": float64(768), "distance": "Dot"}, req.Body["vectors"])
}

func TestStore_CreateCollection_AlreadyExists(t *testing.T) {
	f := newFakeServer(t, func(w http.ResponseWriter, _ recordedRequest) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"status":{"error":"Wrong input: Collection ` + "`wiki`" + ` already exists!"}}`))
	})

	err := f.store("").CreateCollection(context.Background(), domain.DefaultCollectionSchema("wiki"))

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestStore_DeleteCollection_NotFound(t *testing.T) {
	f := newFakeServer(t, func(w http.ResponseWriter, _ recordedRequest) {
		w.WriteHeader(http.StatusNotFound)
	})

	err := f.store("").DeleteCollection(context.Background(), "wiki")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, http.MethodDelete, f.requests[0].Method)
	assert.Empty(t, f.requests[0].APIKey)
}

func TestStore_CollectionExists(t *testing.T) {
	f := newFakeServer(t, func(w http.ResponseWriter, r recordedRequest) {
		assert.Equal(t, "/collections/wiki/exists", r.Path)
		_, _ = w.Write([]byte(`{"result":{"exists":true}}`))
	})

	exists, err := f.store("").CollectionExists(context.Background(), "wiki")

	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_CreateTextIndex(t *testing.T) {
	f := newFakeServer(t, ok)

	err := f.store("").CreateTextIndex(context.Background(), "wiki", domain.FullTextIndexConfig(domain.FieldContent))

	require.NoError(t, err)
	req := f.requests[0]
	assert.Equal(t, "/collections/wiki/index", req.Path)
	assert.Equal(t, "wait=true", req.Query)
	assert.Equal(t, "content", req.Body["field_name"])
	assert.Equal(t, map[string]any{
		"type":          "text",
		"tokenizer":     "prefix",
		"min_token_len": float64(2),
		"max_token_len": float64(20),
		"lowercase":     true,
	}, req.Body["field_schema"])
}

func TestStore_UploadPoints_Batches(t *testing.T) {
	f := newFakeServer(t, ok)
	points := make([]domain.Datapoint, UploadBatchSize+10)
	for i := range points {
		points[i] = domain.Datapoint{
			ID:      fmt.Sprintf("id-%d", i),
			Vector:  []float32{1},
			Payload: domain.Fragment{DocumentTitle: "T", DocumentPath: "p"},
		}
	}

	err := f.store("").UploadPoints(context.Background(), "wiki", points)

	require.NoError(t, err)
	require.Len(t, f.requests, 2)
	assert.Len(t, f.requests[0].Body["points"], UploadBatchSize)
	assert.Len(t, f.requests[1].Body["points"], 10)

	first := f.requests[0].Body["points"].([]any)[0].(map[string]any)
	assert.Equal(t, "id-0", first["id"])
	assert.Equal(t, map[string]any{"pageTitle": "T", "pageUrl": "p"}, first["payload"])
}

func TestStore_UploadPoints_EmptyMakesNoRequest(t *testing.T) {
	f := newFakeServer(t, ok)

	require.NoError(t, f.store("").UploadPoints(context.Background(), "wiki", nil))
	assert.Empty(t, f.requests)
}

func TestStore_SearchByVector(t *testing.T) {
	f := newFakeServer(t, func(w http.ResponseWriter, _ recordedRequest) {
		_, _ = w.Write([]byte(`{"result":[
			{"id":"a","score":0.9,"payload":{"id":"h1","content":"Install","pageTitle":"Guide","pageUrl":"guide"}},
			{"id":7,"score":0.5,"payload":{"pageTitle":"Guide","pageUrl":"guide"}}
		]}`))
	})

	hits, err := f.store("").SearchByVector(context.Background(), "wiki", driven.VectorSearch{
		Vector: []float32{0.5},
		Limit:  7,
		HNSWEf: 128,
	})

	require.NoError(t, err)
	req := f.requests[0]
	assert.Equal(t, "/collections/wiki/points/search", req.Path)
	assert.Equal(t, float64(7), req.Body["limit"])
	assert.Equal(t, map[string]any{"hnsw_ef": float64(128)}, req.Body["params"])
	assert.Equal(t, true, req.Body["with_payload"])
	assert.NotContains(t, req.Body, "filter")

	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, 0.9, hits[0].Score)
	assert.Equal(t, "Install", hits[0].Payload.Text)
	assert.Equal(t, "7", hits[1].ID)
	assert.True(t, hits[1].Payload.IsSentinel())
}

func TestStore_SearchByFilter(t *testing.T) {
	f := newFakeServer(t, func(w http.ResponseWriter, _ recordedRequest) {
		_, _ = w.Write([]byte(`{"result":[]}`))
	})

	hits, err := f.store("").SearchByFilter(context.Background(), "wiki", driven.FilterSearch{
		Vector: []float32{0.5},
		Filter: driven.TextFilter{Should: []driven.TextMatch{
			{Field: "content", Text: "install"},
			{Field: "headerContent", Text: "install"},
		}},
		Limit: 3,
	})

	require.NoError(t, err)
	assert.Empty(t, hits)
	req := f.requests[0]
	assert.Equal(t, float64(3), req.Body["limit"])
	assert.NotContains(t, req.Body, "params")
	assert.Equal(t, map[string]any{"should": []any{
		map[string]any{"key": "content", "match": map[string]any{"text": "install"}},
		map[string]any{"key": "headerContent", "match": map[string]any{"text": "install"}},
	}}, req.Body["filter"])
}

func TestStore_ErrorCarriesStatusMessage(t *testing.T) {
	f := newFakeServer(t, func(w http.ResponseWriter, _ recordedRequest) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":{"error":"Wrong input: Vector dimension error"}}`))
	})

	_, err := f.store("").SearchByVector(context.Background(), "wiki", driven.VectorSearch{Vector: []float32{1}, Limit: 1})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "Vector dimension error")
}

func TestStore_Ping(t *testing.T) {
	f := newFakeServer(t, func(w http.ResponseWriter, r recordedRequest) {
		assert.Equal(t, "/", r.Path)
		_, _ = w.Write([]byte(`{"title":"qdrant","version":"1.12.0"}`))
	})

	store := f.store("")
	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, store.Close())
}

func TestStore_Ping_Unreachable(t *testing.T) {
	store := NewStore(Config{Host: "http://127.0.0.1:1"})

	assert.Error(t, store.Ping(context.Background()))
}
