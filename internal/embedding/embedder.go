package embedding

import (
	"context"
	"time"
)

// Mode selects the task hint for an embedding call. Vectors produced in
// different modes are only comparable through a similarity search.
type Mode int

const (
	ModeDocument Mode = iota
	ModeQuery
)

func (m Mode) String() string {
	if m == ModeQuery {
		return "query"
	}
	return "document"
}

// Embedder converts free text into numeric vectors, one per input text and
// in input order.
type Embedder interface {
	Name() string
	Embed(ctx context.Context, texts []string, mode Mode) ([][]float64, error)
}

// Preparer is implemented by embedders that must see the corpus before
// they can embed anything.
type Preparer interface {
	Prepare(corpus []string) error
}

// RetryDelay is the backoff before retry attempt n: 200ms doubled per
// attempt, capped at 5s.
func RetryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 10 {
		attempt = 10
	}
	d := 200 * time.Millisecond << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
