package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"goldenspoon/internal/domain"
)

const (
	DefaultExpiration = time.Hour
	CleanupInterval   = 10 * time.Minute
)

// Repository keeps session states in memory with sliding expiry.
type Repository struct {
	cache      *cache.Cache
	expiration time.Duration
}

// NewRepository creates a repository; expiration <= 0 uses DefaultExpiration.
func NewRepository(expiration time.Duration) *Repository {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return &Repository{
		cache:      cache.New(expiration, CleanupInterval),
		expiration: expiration,
	}
}

// Create starts a new session with a random id.
func (r *Repository) Create() *State {
	s := NewState(uuid.NewString())
	r.Save(s)
	return s
}

// Save stores s and refreshes its expiry.
func (r *Repository) Save(s *State) {
	r.cache.Set(s.ID(), s, r.expiration)
}

// Get returns the session or domain.ErrSessionNotFound. A hit refreshes the expiry.
func (r *Repository) Get(id string) (*State, error) {
	x, found := r.cache.Get(id)
	if !found {
		return nil, domain.ErrSessionNotFound
	}
	s := x.(*State)
	r.Save(s)
	return s, nil
}

func (r *Repository) Delete(id string) {
	r.cache.Delete(id)
}

// Count returns the number of live sessions.
func (r *Repository) Count() int {
	return r.cache.ItemCount()
}
