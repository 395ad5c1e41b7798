package consultation

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	entries map[string]Consultation
}

// NewMemoryRepository builds an in-memory consultation store for development
// and tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{entries: make(map[string]Consultation)}
}

func (r *memoryRepository) Create(_ context.Context, c Consultation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[c.ID] = c
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.entries[id]
	if !ok {
		return Consultation{}, ErrNotFound
	}
	return c, nil
}

func (r *memoryRepository) ListByClient(_ context.Context, clientID string) ([]Consultation, error) {
	return r.filter(func(c Consultation) bool { return c.ClientID == clientID })
}

func (r *memoryRepository) ListByLawyer(_ context.Context, lawyerID string) ([]Consultation, error) {
	return r.filter(func(c Consultation) bool { return c.LawyerID == lawyerID })
}

func (r *memoryRepository) filter(keep func(Consultation) bool) ([]Consultation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Consultation
	for _, c := range r.entries {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
