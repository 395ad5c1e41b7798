package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lawpadi/lawpadi/internal/ledger"
)

const defaultCurrency = "NGN"

// Service exposes wallet operations backed by the ledger.
type Service struct {
	repo  Repository
	store ledger.Store
}

// NewService builds a wallet service instance.
func NewService(repo Repository, store ledger.Store) *Service {
	return &Service{repo: repo, store: store}
}

// Create provisions a wallet account for the owner. Wallets are created
// implicitly on lawyer registration and never deleted while transactions
// reference them.
func (s *Service) Create(ctx context.Context, ownerID string) (Account, error) {
	account := Account{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Currency:  defaultCurrency,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return Account{}, err
	}
	if err := s.store.EnsureAccount(ctx, account.ID); err != nil {
		return Account{}, err
	}
	return account, nil
}

// Get retrieves a wallet account with its current balance.
func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return Account{}, err
	}
	return s.withBalance(ctx, account)
}

// GetByOwner retrieves the wallet account owned by the user.
func (s *Service) GetByOwner(ctx context.Context, ownerID string) (Account, error) {
	account, err := s.repo.GetByOwner(ctx, ownerID)
	if err != nil {
		return Account{}, err
	}
	return s.withBalance(ctx, account)
}

// Statement returns the account with its most recent ledger activity, newest
// first.
func (s *Service) Statement(ctx context.Context, ownerID string, limit, offset int) (Statement, error) {
	account, err := s.GetByOwner(ctx, ownerID)
	if err != nil {
		return Statement{}, err
	}
	entries, err := s.store.ListByAccount(ctx, account.ID, limit, offset)
	if err != nil {
		return Statement{}, err
	}
	return Statement{
		Account:      account,
		Transactions: toTransactions(entries),
		AsOf:         time.Now().UTC(),
	}, nil
}

func (s *Service) withBalance(ctx context.Context, account Account) (Account, error) {
	balance, err := s.store.Balance(ctx, account.ID)
	if err != nil {
		return Account{}, err
	}
	account.Balance = balance
	return account, nil
}

func toTransactions(entries []ledger.Transaction) []Transaction {
	out := make([]Transaction, 0, len(entries))
	for _, e := range entries {
		out = append(out, Transaction{
			ID:          e.ID,
			Amount:      e.Amount,
			Kind:        string(e.Kind),
			Status:      string(e.Status),
			Reference:   e.Reference,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}
