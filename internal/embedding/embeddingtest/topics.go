// Package embeddingtest provides deterministic embedders for tests.
package embeddingtest

import (
	"context"
	"strings"
	"sync"

	"goldenspoon/internal/embedding"
)

// DefaultTopics covers the subjects of the restaurant knowledge base.
var DefaultTopics = []string{"deliver", "menu", "reserv", "allerg", "review", "invent", "cater"}

// Topics embeds a text as the case-insensitive occurrence count of each
// topic stem. It records every call so tests can assert on modes and batching.
type Topics struct {
	Stems []string
	Err   error

	mu    sync.Mutex
	Calls []Call
}

type Call struct {
	Texts []string
	Mode  embedding.Mode
}

var _ embedding.Embedder = (*Topics)(nil)

func NewTopics() *Topics { return &Topics{Stems: DefaultTopics} }

func (t *Topics) Name() string { return "topics" }

func (t *Topics) Embed(_ context.Context, texts []string, mode embedding.Mode) ([][]float64, error) {
	t.mu.Lock()
	t.Calls = append(t.Calls, Call{Texts: append([]string(nil), texts...), Mode: mode})
	t.mu.Unlock()
	if t.Err != nil {
		return nil, t.Err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		v := make([]float64, len(t.Stems))
		for j, stem := range t.Stems {
			v[j] = float64(strings.Count(lower, stem))
		}
		out[i] = v
	}
	return out, nil
}

// CallCount returns how many times Embed was invoked.
func (t *Topics) CallCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Calls)
}
