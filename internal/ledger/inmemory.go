package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type inMemoryStore struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
	byRef    map[string]*Transaction
	ordered  []*Transaction
}

// NewInMemory creates a concurrency-safe in-memory ledger store used by unit
// tests and dev mode. It mirrors the observable behavior of the Postgres store.
func NewInMemory() Store {
	return &inMemoryStore{
		balances: make(map[string]decimal.Decimal),
		byRef:    make(map[string]*Transaction),
	}
}

func (s *inMemoryStore) EnsureAccount(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.balances[accountID]; !exists {
		s.balances[accountID] = decimal.Zero
	}
	return nil
}

func (s *inMemoryStore) Balance(_ context.Context, accountID string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	balance, exists := s.balances[accountID]
	if !exists {
		return decimal.Zero, ErrAccountNotFound
	}
	return balance, nil
}

func (s *inMemoryStore) Append(_ context.Context, tx Transaction) (Transaction, error) {
	if err := validate(tx); err != nil {
		return Transaction{}, err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byRef[tx.Reference]; exists {
		return Transaction{}, ErrDuplicateReference
	}
	stored := tx
	s.byRef[tx.Reference] = &stored
	s.ordered = append(s.ordered, &stored)
	return tx, nil
}

func (s *inMemoryStore) FindByReference(_ context.Context, reference string) (Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, exists := s.byRef[reference]
	if !exists {
		return Transaction{}, ErrNotFound
	}
	return *tx, nil
}

func (s *inMemoryStore) ListByAccount(_ context.Context, accountID string, limit, offset int) ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched []*Transaction
	for _, tx := range s.ordered {
		if tx.AccountID == accountID {
			matched = append(matched, tx)
		}
	}
	return page(matched, limit, offset), nil
}

func (s *inMemoryStore) ListAll(_ context.Context, limit, offset int) ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := make([]*Transaction, len(s.ordered))
	copy(matched, s.ordered)
	return page(matched, limit, offset), nil
}

func (s *inMemoryStore) Credit(_ context.Context, accountID string, amount decimal.Decimal, reference, description string) (CreditResult, error) {
	if !amount.IsPositive() {
		return CreditResult{}, fmt.Errorf("credit amount must be positive")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byRef[reference]; exists {
		return CreditResult{}, ErrDuplicateReference
	}
	balance, exists := s.balances[accountID]
	if !exists {
		return CreditResult{}, ErrAccountNotFound
	}

	record := Transaction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Amount:      amount,
		Kind:        KindCredit,
		Status:      StatusCompleted,
		Reference:   reference,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	stored := record
	s.byRef[reference] = &stored
	s.ordered = append(s.ordered, &stored)

	balance = balance.Add(amount)
	s.balances[accountID] = balance
	return CreditResult{Transaction: record, Balance: balance}, nil
}

func (s *inMemoryStore) SettleDebit(_ context.Context, reference string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, exists := s.byRef[reference]
	if !exists || tx.Kind != KindDebit || tx.Status != StatusPending {
		return decimal.Zero, ErrNotFound
	}
	balance, exists := s.balances[tx.AccountID]
	if !exists {
		return decimal.Zero, ErrAccountNotFound
	}
	if balance.LessThan(tx.Amount) {
		return decimal.Zero, ErrInsufficientFunds
	}
	balance = balance.Sub(tx.Amount)
	s.balances[tx.AccountID] = balance
	tx.Status = StatusCompleted
	return balance, nil
}

func (s *inMemoryStore) FailDebit(_ context.Context, reference, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, exists := s.byRef[reference]
	if !exists || tx.Kind != KindDebit || tx.Status != StatusPending {
		return ErrNotFound
	}
	tx.Status = StatusFailed
	tx.Description = reason
	return nil
}

func page(matched []*Transaction, limit, offset int) []Transaction {
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	limit = normalizeLimit(limit)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	out := make([]Transaction, 0, end-offset)
	for _, tx := range matched[offset:end] {
		out = append(out, *tx)
	}
	return out
}
