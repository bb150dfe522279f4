package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"goldenspoon/internal/domain"
)

// Storage is a simple in-memory vector store using brute-force cosine similarity.
type Storage struct {
	mu        sync.RWMutex
	dimension int
	index     map[string]int
	records   []domain.Record
}

// NewStorage returns an empty store.
func NewStorage() *Storage { return &Storage{index: make(map[string]int)} }

// Init sets the vector dimension. Existing records are kept if they match it.
func (s *Storage) Init(_ context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.records) > 0 && s.dimension != dimension {
		return errors.New("vector dimension mismatch with existing records")
	}
	s.dimension = dimension
	return nil
}

// Count returns the number of stored records.
func (s *Storage) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Upsert stores records, replacing any with the same document id.
func (s *Storage) Upsert(_ context.Context, records []domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension == 0 {
		return errors.New("storage not initialized")
	}
	for _, r := range records {
		if len(r.Vector) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
		if r.Document.ID == "" {
			return errors.New("record without document id")
		}
	}
	for _, r := range records {
		if i, ok := s.index[r.Document.ID]; ok {
			s.records[i] = r
			continue
		}
		s.index[r.Document.ID] = len(s.records)
		s.records = append(s.records, r)
	}
	return nil
}

// Search returns the topK most similar records, best first. Ties keep
// insertion order.
func (s *Storage) Search(_ context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 1
	}
	results := make([]domain.SearchResult, len(s.records))
	for i, r := range s.records {
		results[i] = domain.SearchResult{Document: r.Document, Score: cosine(r.Vector, vector)}
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

// Clear removes every record.
func (s *Storage) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.index = make(map[string]int)
	return nil
}

func cosine(a, b []float64) float64 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
