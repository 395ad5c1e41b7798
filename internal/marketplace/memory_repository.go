package marketplace

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

type memoryRepository struct {
	mu        sync.RWMutex
	templates map[string]Template
	purchases map[string]Purchase // keyed by reference
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		templates: make(map[string]Template),
		purchases: make(map[string]Purchase),
	}
}

func (r *memoryRepository) CreateTemplate(_ context.Context, t Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.templates[t.ID]; exists {
		return errors.New("template exists")
	}
	r.templates[t.ID] = t
	return nil
}

func (r *memoryRepository) GetTemplate(_ context.Context, id string) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	if !ok {
		return Template{}, ErrTemplateNotFound
	}
	return t, nil
}

func (r *memoryRepository) ListVisible(_ context.Context, userID string) ([]Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Template
	for _, t := range r.templates {
		if t.Visibility == VisibilityPublic || t.OwnerID == userID {
			out = append(out, t)
		}
	}
	sortTemplates(out)
	return out, nil
}

func (r *memoryRepository) ListOwned(_ context.Context, ownerID string) ([]Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Template
	for _, t := range r.templates {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sortTemplates(out)
	return out, nil
}

func (r *memoryRepository) ListPurchased(_ context.Context, buyerID string) ([]Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Template
	for _, p := range r.purchases {
		if p.BuyerID != buyerID || p.Status != PurchaseSuccess {
			continue
		}
		if t, ok := r.templates[p.TemplateID]; ok {
			out = append(out, t)
		}
	}
	sortTemplates(out)
	return out, nil
}

func (r *memoryRepository) UpdateTemplate(_ context.Context, t Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.templates[t.ID]; !exists {
		return ErrTemplateNotFound
	}
	t.UpdatedAt = time.Now().UTC()
	r.templates[t.ID] = t
	return nil
}

func (r *memoryRepository) DeleteTemplate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.templates[id]; !exists {
		return ErrTemplateNotFound
	}
	delete(r.templates, id)
	return nil
}

func (r *memoryRepository) MarkBought(_ context.Context, templateID, buyerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, exists := r.templates[templateID]
	if !exists {
		return ErrTemplateNotFound
	}
	t.BuyerID = buyerID
	t.UpdatedAt = time.Now().UTC()
	r.templates[templateID] = t
	return nil
}

func (r *memoryRepository) CreatePurchase(_ context.Context, p Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.purchases[p.Reference]; exists {
		return ErrDuplicatePurchase
	}
	r.purchases[p.Reference] = p
	return nil
}

func sortTemplates(templates []Template) {
	sort.SliceStable(templates, func(i, j int) bool {
		return templates[i].CreatedAt.After(templates[j].CreatedAt)
	})
}
