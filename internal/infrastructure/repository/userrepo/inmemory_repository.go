package userrepo

import (
	"context"
	"sync"

	"jan-server/services/pairing-api/internal/domain/identity"
)

// InMemoryRepository keeps profiles in process memory.
type InMemoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]identity.Profile
}

// NewInMemoryRepository creates an empty profile directory.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{profiles: make(map[string]identity.Profile)}
}

// UpsertProfile stores or replaces a profile.
func (r *InMemoryRepository) UpsertProfile(_ context.Context, profile identity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.ID] = profile
	return nil
}

// Lookup returns the profile for id.
func (r *InMemoryRepository) Lookup(id string) (identity.Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	profile, ok := r.profiles[id]
	return profile, ok
}
