package vectorstore

import (
	"context"

	"goldenspoon/internal/domain"
)

// Storage persists document vectors and supports similarity search.
// Records are keyed by document id; upserting an existing id replaces it.
type Storage interface {
	Init(ctx context.Context, dimension int) error
	Count(ctx context.Context) (int, error)
	Upsert(ctx context.Context, records []domain.Record) error
	Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error)
	Clear(ctx context.Context) error
}
