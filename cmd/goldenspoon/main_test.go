package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goldenspoon/internal/config"
	"goldenspoon/internal/domain"
	"goldenspoon/internal/vectorstore/memory"
	"goldenspoon/internal/vectorstore/qdrant"
)

// fakeGemini streams a fixed reply and records the prompts it receives.
type fakeGemini struct {
	mu      sync.Mutex
	prompts []string
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Contents []struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"contents"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	last := req.Contents[len(req.Contents)-1]
	f.mu.Lock()
	f.prompts = append(f.prompts, last.Parts[0].Text)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "text/event-stream")
	for _, text := range []string{"Yes,", "we deliver."} {
		fmt.Fprintf(w, "data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":%q}]}}]}\r\n\r\n", text)
	}
}

func writeConfig(t *testing.T, chatURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := fmt.Sprintf(`embedder:
  type: tfidf
chat:
  base_url: %s
speech:
  input: false
  output: false
log:
  path: %s
credentials:
  secrets_file: %s
`, chatURL, filepath.Join(dir, "gs.log"), filepath.Join(dir, "missing.yaml"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestAskStreamsAnswer(t *testing.T) {
	gem := &fakeGemini{}
	srv := httptest.NewServer(gem)
	defer srv.Close()
	t.Setenv("GOOGLE_API_KEY", "test-key")

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--config", writeConfig(t, srv.URL), "ask", "Do", "you", "deliver?"})
	require.NoError(t, root.Execute())

	assert.Equal(t, "Yes, we deliver. \n", out.String())
	require.Len(t, gem.prompts, 1)
	assert.True(t, strings.HasSuffix(gem.prompts[0], "User query: Do you deliver?"))
}

func TestAskInHindiAddsDirective(t *testing.T) {
	gem := &fakeGemini{}
	srv := httptest.NewServer(gem)
	defer srv.Close()
	t.Setenv("GOOGLE_API_KEY", "test-key")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", writeConfig(t, srv.URL), "ask", "--lang", "hi", "menu?"})
	require.NoError(t, root.Execute())
	require.Len(t, gem.prompts, 1)
	assert.True(t, strings.HasPrefix(gem.prompts[0], domain.Hindi.Directive()))
}

func TestMissingAPIKeyIsConfigurationError(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--config", writeConfig(t, "http://127.0.0.1:1"), "ask", "hello"})
	err := root.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestAskRequiresQuestion(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"ask"})
	assert.Error(t, root.Execute())
}

func TestNewStorage(t *testing.T) {
	st, err := newStorage(config.VectorStoreConfig{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &memory.Storage{}, st)

	st, err = newStorage(config.VectorStoreConfig{Type: "qdrant", Qdrant: &config.QdrantConfig{URL: "http://localhost:6333", Collection: "c"}})
	require.NoError(t, err)
	assert.IsType(t, &qdrant.Storage{}, st)

	_, err = newStorage(config.VectorStoreConfig{Type: "qdrant"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	_, err = newStorage(config.VectorStoreConfig{Type: "faiss"})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestNewEmbedder(t *testing.T) {
	emb, err := newEmbedder(config.EmbedderConfig{Type: "tfidf"}, "")
	require.NoError(t, err)
	assert.Equal(t, "tfidf", emb.Name())

	emb, err = newEmbedder(config.EmbedderConfig{Type: "gemini", Gemini: &config.GeminiEmbedderConfig{}}, "key")
	require.NoError(t, err)
	assert.Equal(t, "gemini", emb.Name())

	_, err = newEmbedder(config.EmbedderConfig{Type: "gemini", Gemini: &config.GeminiEmbedderConfig{}}, "")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	_, err = newEmbedder(config.EmbedderConfig{Type: "word2vec"}, "")
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
