package funding

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
	// ErrInvalidInput indicates the amount or reference is missing.
	ErrInvalidInput = errors.New("reference or amount is missing")

	// ErrVerificationFailed indicates the gateway reported a non-success payment
	// or was unreachable. The caller may retry with the same reference; the
	// uniqueness guard makes the retry safe.
	ErrVerificationFailed = errors.New("payment verification failed")
)

// Verifier is the slice of the payment gateway used to confirm a payment.
type Verifier interface {
	VerifyTransaction(ctx context.Context, reference string) (paystack.Verification, error)
}

// Service credits a wallet after gateway verification, idempotent per
// reference.
type Service struct {
	store     ledger.Store
	wallets   *wallet.Service
	gateway   Verifier
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService builds a funding service.
func NewService(store ledger.Store, wallets *wallet.Service, gateway Verifier, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{store: store, wallets: wallets, gateway: gateway, publisher: publisher, logger: logger}
}

// Input captures a funding request for the authenticated user.
type Input struct {
	UserID    string
	Amount    decimal.Decimal
	Reference string
}

// Result is the outcome of a successful funding.
type Result struct {
	Balance     decimal.Decimal
	Transaction ledger.Transaction
}

// Fund verifies the payment reference with the gateway and atomically credits
// the caller's wallet. A repeated reference is rejected without re-crediting.
func (s *Service) Fund(ctx context.Context, input Input) (Result, error) {
	if input.Reference == "" || !input.Amount.IsPositive() {
		return Result{}, ErrInvalidInput
	}

	// Fast-path duplicate guard; the ledger's unique index closes the race
	// between concurrent duplicate submissions.
	if _, err := s.store.FindByReference(ctx, input.Reference); err == nil {
		return Result{}, ledger.ErrDuplicateReference
	} else if !errors.Is(err, ledger.ErrNotFound) {
		return Result{}, err
	}

	account, err := s.wallets.GetByOwner(ctx, input.UserID)
	if err != nil {
		return Result{}, err
	}

	verification, err := s.gateway.VerifyTransaction(ctx, input.Reference)
	if err != nil {
		if errors.Is(err, paystack.ErrGatewayTimeout) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}
	if !verification.Paid {
		return Result{}, ErrVerificationFailed
	}

	credited := verification.Amount
	res, err := s.store.Credit(ctx, account.ID, credited, input.Reference,
		fmt.Sprintf("Wallet funding with %s", credited))
	if err != nil {
		return Result{}, err
	}

	s.publish(ctx, events.TransactionEvent{
		Kind:        events.KindWalletFunded,
		AccountID:   account.ID,
		Reference:   input.Reference,
		Amount:      credited,
		Balance:     res.Balance,
		CompletedAt: time.Now().UTC(),
	})

	return Result{Balance: res.Balance, Transaction: res.Transaction}, nil
}

func (s *Service) publish(ctx context.Context, event events.TransactionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil && s.logger != nil {
		s.logger.Warn("publish transaction event", "kind", event.Kind, "reference", event.Reference, "error", err)
	}
}
