package withdrawal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lawpadi/lawpadi/internal/events"
	"github.com/lawpadi/lawpadi/internal/ledger"
	"github.com/lawpadi/lawpadi/internal/paystack"
	"github.com/lawpadi/lawpadi/internal/wallet"
)

var (
	// ErrInvalidInput indicates the amount or destination account is missing.
	ErrInvalidInput = errors.New("amount and account number are missing")

	// ErrBelowMinimum indicates the amount is under the platform minimum.
	ErrBelowMinimum = errors.New("amount is below the minimum withdrawal")

	// ErrBankVerificationFailed indicates the destination account could not be
	// resolved. The pending debit is marked failed; the balance is untouched.
	ErrBankVerificationFailed = errors.New("bank account verification failed")

	// ErrTransferSetupFailed indicates the transfer recipient could not be
	// created at the gateway.
	ErrTransferSetupFailed = errors.New("transfer recipient setup failed")

	// ErrTransferFailed indicates the gateway rejected the transfer.
	ErrTransferFailed = errors.New("transfer could not be completed")
)

// Gateway is the slice of the payment gateway driving external transfers.
type Gateway interface {
	ResolveBankAccount(ctx context.Context, accountNumber, bankCode string) (paystack.ResolvedAccount, error)
	CreateTransferRecipient(ctx context.Context, account paystack.ResolvedAccount) (string, error)
	InitiateTransfer(ctx context.Context, recipient string, amount decimal.Decimal, reference string) error
}

// Service debits a wallet and drives the two-step external transfer. The
// balance is mutated only after the gateway accepts the transfer, so any
// earlier failure leaves an auditable failed record and an untouched balance.
type Service struct {
	store     ledger.Store
	wallets   *wallet.Service
	gateway   Gateway
	publisher events.Publisher
	logger    *slog.Logger
	minimum   decimal.Decimal
}

// NewService builds a withdrawal service enforcing the platform minimum.
func NewService(store ledger.Store, wallets *wallet.Service, gateway Gateway, publisher events.Publisher, logger *slog.Logger, minimum decimal.Decimal) *Service {
	return &Service{store: store, wallets: wallets, gateway: gateway, publisher: publisher, logger: logger, minimum: minimum}
}

// Input captures a withdrawal request for the authenticated user.
type Input struct {
	UserID        string
	Amount        decimal.Decimal
	AccountNumber string
	BankCode      string
}

// Result is the outcome of an accepted withdrawal.
type Result struct {
	Balance     decimal.Decimal
	Transaction ledger.Transaction
}

// Withdraw validates the request, records a pending debit, drives the
// gateway's resolve/recipient/transfer sequence and settles the debit only
// after the transfer is accepted.
func (s *Service) Withdraw(ctx context.Context, input Input) (Result, error) {
	if input.AccountNumber == "" || !input.Amount.IsPositive() {
		return Result{}, ErrInvalidInput
	}
	if input.Amount.LessThan(s.minimum) {
		return Result{}, fmt.Errorf("%w: minimum is %s", ErrBelowMinimum, s.minimum)
	}

	account, err := s.wallets.GetByOwner(ctx, input.UserID)
	if err != nil {
		return Result{}, err
	}
	if account.Balance.LessThan(input.Amount) {
		return Result{}, ledger.ErrInsufficientFunds
	}

	// Record the pending debit before any external call so a failure later
	// leaves a durable, auditable record. A concurrent writer can claim the
	// reference between generation and append; the unique index arbitrates
	// and a fresh reference is tried.
	var pending ledger.Transaction
	var reference string
	for attempt := 0; ; attempt++ {
		reference, err = newReference(ctx, s.store)
		if err != nil {
			return Result{}, err
		}
		pending, err = s.store.Append(ctx, ledger.Transaction{
			AccountID:   account.ID,
			Amount:      input.Amount,
			Kind:        ledger.KindDebit,
			Status:      ledger.StatusPending,
			Reference:   reference,
			Description: fmt.Sprintf("N%s withdrawn from user wallet", input.Amount),
		})
		if errors.Is(err, ledger.ErrDuplicateReference) {
			if attempt+1 >= maxReferenceAttempts {
				return Result{}, ErrReferenceExhausted
			}
			continue
		}
		if err != nil {
			return Result{}, err
		}
		break
	}

	resolved, err := s.gateway.ResolveBankAccount(ctx, input.AccountNumber, input.BankCode)
	if err != nil {
		return Result{}, s.fail(ctx, reference, "bank account verification failed", ErrBankVerificationFailed, err)
	}

	recipient, err := s.gateway.CreateTransferRecipient(ctx, resolved)
	if err != nil {
		return Result{}, s.fail(ctx, reference, "transfer recipient setup failed", ErrTransferSetupFailed, err)
	}

	if err := s.gateway.InitiateTransfer(ctx, recipient, input.Amount, reference); err != nil {
		return Result{}, s.fail(ctx, reference, "transfer initiation failed", ErrTransferFailed, err)
	}

	// The gateway accepted the transfer; debit the balance. The conditional
	// decrement serializes concurrent withdrawals against the same account.
	balance, err := s.store.SettleDebit(ctx, reference)
	if err != nil {
		if errors.Is(err, ledger.ErrInsufficientFunds) {
			return Result{}, s.fail(ctx, reference, "insufficient funds at settlement", ledger.ErrInsufficientFunds, nil)
		}
		return Result{}, err
	}

	completed := pending
	completed.Status = ledger.StatusCompleted

	s.publish(ctx, events.TransactionEvent{
		Kind:        events.KindWithdrawalCompleted,
		AccountID:   account.ID,
		Reference:   reference,
		Amount:      input.Amount,
		Balance:     balance,
		CompletedAt: time.Now().UTC(),
	})

	return Result{Balance: balance, Transaction: completed}, nil
}

func (s *Service) fail(ctx context.Context, reference, reason string, kind, cause error) error {
	if err := s.store.FailDebit(ctx, reference, reason); err != nil && s.logger != nil {
		s.logger.Error("mark withdrawal failed", "reference", reference, "error", err)
	}
	if cause == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

func (s *Service) publish(ctx context.Context, event events.TransactionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil && s.logger != nil {
		s.logger.Warn("publish transaction event", "kind", event.Kind, "reference", event.Reference, "error", err)
	}
}
