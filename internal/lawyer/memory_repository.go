package lawyer

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryRepository struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewMemoryRepository builds an in-memory profile store for development and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{profiles: make(map[string]Profile)}
}

func (r *memoryRepository) Create(_ context.Context, profile Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.UserID == profile.UserID {
			return ErrProfileExists
		}
	}
	r.profiles[profile.ID] = profile
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *memoryRepository) GetByUser(_ context.Context, userID string) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return Profile{}, ErrNotFound
}

func (r *memoryRepository) List(_ context.Context, filter ListFilter) ([]Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Profile
	for _, p := range r.profiles {
		if filter.VerifiedOnly && !p.Verified {
			continue
		}
		if filter.Specialization != "" && !hasSpecialization(p, filter.Specialization) {
			continue
		}
		if filter.Search != "" && !matchesSearch(p, filter.Search) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryRepository) SetVerified(_ context.Context, id string, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return ErrNotFound
	}
	p.Verified = verified
	p.UpdatedAt = time.Now().UTC()
	r.profiles[id] = p
	return nil
}

func (r *memoryRepository) SetRating(_ context.Context, id string, rating float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return ErrNotFound
	}
	p.Rating = rating
	p.UpdatedAt = time.Now().UTC()
	r.profiles[id] = p
	return nil
}

func hasSpecialization(p Profile, want string) bool {
	for _, s := range p.Specializations {
		if s == want {
			return true
		}
	}
	return false
}

func matchesSearch(p Profile, search string) bool {
	needle := strings.ToLower(search)
	for _, s := range p.Specializations {
		if strings.Contains(strings.ToLower(s), needle) {
			return true
		}
	}
	return false
}
