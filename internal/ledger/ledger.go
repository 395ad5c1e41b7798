package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrDuplicateReference indicates a transaction with the provided reference
	// number already exists; the operation must not be applied again.
	ErrDuplicateReference = errors.New("duplicate transaction reference")

	// ErrNotFound indicates no transaction matches the requested reference.
	ErrNotFound = errors.New("transaction not found")

	// ErrInsufficientFunds occurs when a debit would drive the account balance
	// below zero.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNotFound indicates the referenced wallet account does not exist.
	ErrAccountNotFound = errors.New("account not found")
)

// Kind classifies a transaction as a credit or debit against the account.
type Kind string

const (
	KindCredit Kind = "credit"
	KindDebit  Kind = "debit"
)

// Valid reports whether the kind is one of the closed set.
func (k Kind) Valid() bool {
	return k == KindCredit || k == KindDebit
}

// Status tracks the lifecycle of a transaction. A pending transaction moves
// exactly once to completed or failed.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Valid reports whether the status is one of the closed set.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Transaction is an immutable ledger record. Amount is always a positive
// magnitude; Kind determines its sign against the account balance.
type Transaction struct {
	ID          string
	AccountID   string
	Amount      decimal.Decimal
	Kind        Kind
	Status      Status
	Reference   string
	Description string
	CreatedAt   time.Time
}

// CreditResult captures the outcome of an atomic credit posting.
type CreditResult struct {
	Transaction Transaction
	Balance     decimal.Decimal
}

// Store is the append-only ledger contract. It is the only component allowed
// to mutate wallet balances, which remain reconstructible as
// sum(completed credits) - sum(completed debits).
type Store interface {
	// EnsureAccount verifies the account is known to the ledger, creating the
	// balance entry where the backend requires one.
	EnsureAccount(ctx context.Context, accountID string) error

	// Balance returns the current balance for the account.
	Balance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// Append records a transaction, failing with ErrDuplicateReference when the
	// reference number already exists.
	Append(ctx context.Context, tx Transaction) (Transaction, error)

	// FindByReference returns the transaction carrying the reference or ErrNotFound.
	FindByReference(ctx context.Context, reference string) (Transaction, error)

	// ListByAccount returns transactions for the account, newest first. The
	// offset makes the sequence restartable for paging.
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]Transaction, error)

	// ListAll returns transactions across all accounts, newest first.
	ListAll(ctx context.Context, limit, offset int) ([]Transaction, error)

	// Credit atomically appends a completed credit and increments the account
	// balance. The reference uniqueness is enforced by the storage layer so
	// concurrent duplicate submissions cannot both apply.
	Credit(ctx context.Context, accountID string, amount decimal.Decimal, reference, description string) (CreditResult, error)

	// SettleDebit completes a pending debit and decrements the balance,
	// conditioned on sufficiency. Check and decrement are atomic per account.
	SettleDebit(ctx context.Context, reference string) (decimal.Decimal, error)

	// FailDebit marks a pending debit as failed with a reason. The balance is
	// untouched.
	FailDebit(ctx context.Context, reference, reason string) error
}
