package qdrant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goldenspoon/internal/domain"
)

type fakeQdrant struct {
	mu      sync.Mutex
	exists  bool
	created map[string]any
	points  []map[string]any
	calls   []string
}

func (f *fakeQdrant) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.calls = append(f.calls, r.Method+" "+r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("api-key"))

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/collections/menu":
			if !f.exists {
				http.Error(w, `{"status":"not found"}`, http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(`{"result":{}}`))
		case r.Method == http.MethodPut && r.URL.Path == "/collections/menu":
			_ = json.NewDecoder(r.Body).Decode(&f.created)
			f.exists = true
			_, _ = w.Write([]byte(`{"result":true}`))
		case r.Method == http.MethodPut && r.URL.Path == "/collections/menu/points":
			assert.Equal(t, "true", r.URL.Query().Get("wait"))
			var body struct {
				Points []map[string]any `json:"points"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.points = append(f.points, body.Points...)
			_, _ = w.Write([]byte(`{"result":{"status":"completed"}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/collections/menu/points/count":
			if !f.exists {
				http.Error(w, `{}`, http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"result": map[string]any{"count": len(f.points)}})
		case r.Method == http.MethodPost && r.URL.Path == "/collections/menu/points/search":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			assert.EqualValues(t, 2, body["limit"])
			_, _ = w.Write([]byte(`{"result":[
				{"score":0.9,"payload":{"document_id":"doc1","content":"menu text"}},
				{"score":0.4,"payload":{"document_id":"doc2","content":"delivery text"}}]}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/collections/menu":
			f.exists = false
			f.points = nil
			_, _ = w.Write([]byte(`{"result":true}`))
		default:
			http.Error(w, "unexpected", http.StatusBadRequest)
		}
	})
}

func newTestStorage(t *testing.T, f *fakeQdrant) *Storage {
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	s, err := NewStorage(Config{URL: srv.URL, APIKey: "secret", Collection: "menu"})
	require.NoError(t, err)
	return s
}

func TestInitCreatesMissingCollection(t *testing.T) {
	f := &fakeQdrant{}
	s := newTestStorage(t, f)

	require.NoError(t, s.Init(context.Background(), 3))
	require.NotNil(t, f.created)
	vectors := f.created["vectors"].(map[string]any)
	assert.EqualValues(t, 3, vectors["size"])
	assert.Equal(t, "Cosine", vectors["distance"])

	// second init sees the collection and does not recreate it
	f.created = nil
	require.NoError(t, s.Init(context.Background(), 3))
	assert.Nil(t, f.created)
}

func TestCountUpsertSearchClear(t *testing.T) {
	ctx := context.Background()
	f := &fakeQdrant{}
	s := newTestStorage(t, f)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "missing collection counts as empty")

	require.NoError(t, s.Init(ctx, 2))
	require.NoError(t, s.Upsert(ctx, []domain.Record{
		{Document: domain.Document{ID: "doc1", Content: "menu text"}, Vector: []float64{1, 0}},
		{Document: domain.Document{ID: "doc2", Content: "delivery text"}, Vector: []float64{0, 1}},
	}))
	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, PointID("doc1"), f.points[0]["id"])
	payload := f.points[0]["payload"].(map[string]any)
	assert.Equal(t, "doc1", payload["document_id"])

	res, err := s.Search(ctx, []float64{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, "doc1", res[0].Document.ID)
	assert.Equal(t, "menu text", res[0].Document.Content)
	assert.InDelta(t, 0.9, res[0].Score, 1e-9)

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx), "clearing a missing collection is fine")
}

func TestPointIDIsStable(t *testing.T) {
	assert.Equal(t, PointID("doc3"), PointID("doc3"))
	assert.NotEqual(t, PointID("doc3"), PointID("doc4"))
	assert.Len(t, PointID("doc3"), 36)
}

func TestNewStorageValidation(t *testing.T) {
	_, err := NewStorage(Config{Collection: "x"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	_, err = NewStorage(Config{URL: "http://localhost:6333"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()
	s, err := NewStorage(Config{URL: srv.URL, Collection: "menu"})
	require.NoError(t, err)
	_, err = s.Count(context.Background())
	assert.ErrorContains(t, err, "500")
	assert.Error(t, s.Init(context.Background(), 2))
}
