package wallet

import (
	"context"
	"errors"
	"sync"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Account
}

// NewMemoryRepository constructs an in-memory repository for tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Account)}
}

func (r *memoryRepository) Create(_ context.Context, account Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.storage[account.ID]; exists {
		return errors.New("wallet exists")
	}
	for _, existing := range r.storage {
		if existing.OwnerID == account.OwnerID {
			return errors.New("owner already has a wallet")
		}
	}
	r.storage[account.ID] = account
	return nil
}

func (r *memoryRepository) Get(_ context.Context, id string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.storage[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return account, nil
}

func (r *memoryRepository) GetByOwner(_ context.Context, ownerID string) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, account := range r.storage {
		if account.OwnerID == ownerID {
			return account, nil
		}
	}
	return Account{}, ErrNotFound
}
