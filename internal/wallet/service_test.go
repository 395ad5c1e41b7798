package wallet

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lawpadi/lawpadi/internal/ledger"
)

func TestServiceCreateAndBalance(t *testing.T) {
	repo := NewMemoryRepository()
	store := ledger.NewInMemory()
	svc := NewService(repo, store)

	ctx := context.Background()
	ownerID := uuid.NewString()
	account, err := svc.Create(ctx, ownerID)
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	fetched, err := svc.GetByOwner(ctx, ownerID)
	if err != nil {
		t.Fatalf("get wallet: %v", err)
	}
	if fetched.ID != account.ID || fetched.OwnerID != ownerID {
		t.Fatalf("expected wallet %s, got %s", account.ID, fetched.ID)
	}
	if !fetched.Balance.IsZero() {
		t.Fatalf("expected zero opening balance, got %s", fetched.Balance)
	}

	ledger.SeedBalance(store, account.ID, decimal.NewFromInt(2_500))

	fetched, err = svc.Get(ctx, account.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if !fetched.Balance.Equal(decimal.NewFromInt(2_500)) {
		t.Fatalf("expected balance 2500, got %s", fetched.Balance)
	}
}

func TestServiceStatement(t *testing.T) {
	repo := NewMemoryRepository()
	store := ledger.NewInMemory()
	svc := NewService(repo, store)

	ctx := context.Background()
	ownerID := uuid.NewString()
	account, err := svc.Create(ctx, ownerID)
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	if _, err := store.Credit(ctx, account.ID, decimal.NewFromInt(1_200), "st-1", "wallet funding"); err != nil {
		t.Fatalf("credit: %v", err)
	}

	statement, err := svc.Statement(ctx, ownerID, 10, 0)
	if err != nil {
		t.Fatalf("statement: %v", err)
	}
	if len(statement.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(statement.Transactions))
	}
	if statement.Transactions[0].Reference != "st-1" {
		t.Fatalf("unexpected reference %s", statement.Transactions[0].Reference)
	}
	if !statement.Account.Balance.Equal(decimal.NewFromInt(1_200)) {
		t.Fatalf("expected balance 1200, got %s", statement.Account.Balance)
	}
}

func TestServiceGetByOwnerMissing(t *testing.T) {
	svc := NewService(NewMemoryRepository(), ledger.NewInMemory())

	if _, err := svc.GetByOwner(context.Background(), uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
