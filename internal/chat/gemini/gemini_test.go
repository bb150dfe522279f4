package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goldenspoon/internal/domain"
)

type recordedRequest struct {
	Path     string
	Query    string
	APIKey   string
	Contents []content
}

type fakeGemini struct {
	mu       sync.Mutex
	requests []recordedRequest
	respond  func(w http.ResponseWriter, n int)
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body streamRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Path:     r.URL.Path,
		Query:    r.URL.RawQuery,
		APIKey:   r.Header.Get("x-goog-api-key"),
		Contents: body.Contents,
	})
	n := len(f.requests)
	f.mu.Unlock()
	f.respond(w, n)
}

func sse(w http.ResponseWriter, events ...string) {
	w.Header().Set("Content-Type", "text/event-stream")
	for _, e := range events {
		fmt.Fprintf(w, "data: %s\r\n\r\n", e)
		if fl, ok := w.(http.Flusher); ok {
			fl.Flush()
		}
	}
}

func textEvent(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{"role": "model", "parts": []any{map[string]any{"text": text}}},
		}},
	})
	return string(b)
}

func newTestSession(t *testing.T, f *fakeGemini) *Session {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	s, err := NewSession(Config{BaseURL: srv.URL, APIKey: "key"})
	require.NoError(t, err)
	return s
}

func collect(t *testing.T, s *Session, prompt string) ([]string, error) {
	t.Helper()
	var out []string
	for frag, err := range s.Send(context.Background(), prompt) {
		if err != nil {
			return out, err
		}
		out = append(out, frag)
	}
	return out, nil
}

func TestSendStreamsFragmentsInOrder(t *testing.T) {
	f := &fakeGemini{respond: func(w http.ResponseWriter, _ int) {
		sse(w, textEvent("We offer"), textEvent(""), textEvent("home delivery."))
	}}
	s := newTestSession(t, f)

	frags, err := collect(t, s, "Do you deliver?")
	require.NoError(t, err)
	assert.Equal(t, []string{"We offer", "home delivery."}, frags)

	require.Len(t, f.requests, 1)
	req := f.requests[0]
	assert.Equal(t, "/models/gemini-1.5-flash:streamGenerateContent", req.Path)
	assert.Equal(t, "alt=sse", req.Query)
	assert.Equal(t, "key", req.APIKey)
	require.Len(t, req.Contents, 1)
	assert.Equal(t, "user", req.Contents[0].Role)
	assert.Equal(t, "Do you deliver?", req.Contents[0].Parts[0].Text)
}

func TestHistoryGrowsOnSuccess(t *testing.T) {
	f := &fakeGemini{respond: func(w http.ResponseWriter, n int) {
		sse(w, textEvent(fmt.Sprintf("reply %d", n)))
	}}
	s := newTestSession(t, f)

	_, err := collect(t, s, "first")
	require.NoError(t, err)
	_, err = collect(t, s, "second")
	require.NoError(t, err)
	assert.Equal(t, 4, s.HistoryLen())

	second := f.requests[1].Contents
	require.Len(t, second, 3)
	assert.Equal(t, "first", second[0].Parts[0].Text)
	assert.Equal(t, "model", second[1].Role)
	assert.Equal(t, "reply 1", second[1].Parts[0].Text)
	assert.Equal(t, "second", second[2].Parts[0].Text)
}

func TestFailedStreamLeavesHistory(t *testing.T) {
	f := &fakeGemini{respond: func(w http.ResponseWriter, n int) {
		if n == 1 {
			sse(w, textEvent("ok"))
			return
		}
		sse(w, textEvent("partial"), `{"error":{"code":500,"status":"INTERNAL","message":"boom"}}`)
	}}
	s := newTestSession(t, f)

	_, err := collect(t, s, "first")
	require.NoError(t, err)

	frags, err := collect(t, s, "second")
	require.Error(t, err)
	assert.ErrorContains(t, err, "boom")
	assert.Equal(t, []string{"partial"}, frags)
	assert.Equal(t, 2, s.HistoryLen())
}

func TestHTTPErrorStatus(t *testing.T) {
	f := &fakeGemini{respond: func(w http.ResponseWriter, _ int) {
		http.Error(w, `{"error":{"message":"quota"}}`, http.StatusTooManyRequests)
	}}
	s := newTestSession(t, f)

	_, err := collect(t, s, "hello")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusTooManyRequests))
	assert.Zero(t, s.HistoryLen())
}

func TestAbandonedStreamIsNotCommitted(t *testing.T) {
	f := &fakeGemini{respond: func(w http.ResponseWriter, _ int) {
		sse(w, textEvent("one"), textEvent("two"), textEvent("three"))
	}}
	s := newTestSession(t, f)

	for frag, err := range s.Send(context.Background(), "hi") {
		require.NoError(t, err)
		assert.Equal(t, "one", frag)
		break
	}
	assert.Zero(t, s.HistoryLen())

	// a later send still works after an early break
	_, err := collect(t, s, "again")
	require.NoError(t, err)
	assert.Equal(t, 2, s.HistoryLen())
}

func TestBlockedPromptAndEmptyReply(t *testing.T) {
	f := &fakeGemini{respond: func(w http.ResponseWriter, n int) {
		if n == 1 {
			sse(w, `{"promptFeedback":{"blockReason":"SAFETY"}}`)
			return
		}
		sse(w, `{"candidates":[{"content":{"parts":[]},"finishReason":"STOP"}]}`)
	}}
	s := newTestSession(t, f)

	_, err := collect(t, s, "x")
	assert.ErrorContains(t, err, "SAFETY")
	_, err = collect(t, s, "y")
	assert.ErrorContains(t, err, "no text")
	assert.Zero(t, s.HistoryLen())
}

func TestReset(t *testing.T) {
	f := &fakeGemini{respond: func(w http.ResponseWriter, _ int) { sse(w, textEvent("hi")) }}
	s := newTestSession(t, f)
	_, err := collect(t, s, "hello")
	require.NoError(t, err)
	require.Equal(t, 2, s.HistoryLen())

	s.Reset()
	assert.Zero(t, s.HistoryLen())
	_, err = collect(t, s, "again")
	require.NoError(t, err)
	assert.Len(t, f.requests[1].Contents, 1)
}

func TestResetDuringStreamDoesNotBlock(t *testing.T) {
	f := &fakeGemini{respond: func(w http.ResponseWriter, _ int) {
		events := make([]string, 100)
		for i := range events {
			events[i] = textEvent(fmt.Sprint(i))
		}
		sse(w, events...)
	}}
	s := newTestSession(t, f)

	n := 0
	for _, err := range s.Send(context.Background(), "long answer please") {
		require.NoError(t, err)
		n++
		if n == 1 {
			done := make(chan struct{})
			go func() {
				s.Reset()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(2 * time.Second):
				t.Fatal("Reset waited for the active stream")
			}
		}
	}
	assert.Equal(t, 100, n)
	assert.Zero(t, s.HistoryLen(), "a stream that started before Reset is not remembered")

	_, err := collect(t, s, "next")
	require.NoError(t, err)
	assert.Len(t, f.requests[1].Contents, 1)
	assert.Equal(t, 2, s.HistoryLen())
}

func TestConcurrentSendsAllCommit(t *testing.T) {
	f := &fakeGemini{respond: func(w http.ResponseWriter, n int) { sse(w, textEvent(fmt.Sprint(n))) }}
	s := newTestSession(t, f)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, err := range s.Send(context.Background(), "q") {
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, s.HistoryLen())
	for _, r := range f.requests {
		assert.Equal(t, 1, len(r.Contents)%2, "history holds whole exchanges")
		assert.Equal(t, "user", r.Contents[len(r.Contents)-1].Role)
	}
}

func TestNewSessionRequiresKey(t *testing.T) {
	_, err := NewSession(Config{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
