package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// KindWalletFunded is emitted after a funding credit completes.
	KindWalletFunded = "wallet_funded"
	// KindWithdrawalCompleted is emitted after a withdrawal debit settles.
	KindWithdrawalCompleted = "withdrawal_completed"
	// KindTemplateSold is emitted after a marketplace settlement credits a seller.
	KindTemplateSold = "template_sold"
)

// TransactionEvent describes a completed balance-affecting event for
// downstream audit consumers.
type TransactionEvent struct {
	Kind        string          `json:"kind"`
	AccountID   string          `json:"account_id"`
	Reference   string          `json:"reference"`
	Amount      decimal.Decimal `json:"amount"`
	Balance     decimal.Decimal `json:"balance"`
	CompletedAt time.Time       `json:"completed_at"`
}

// Publisher delivers transaction events to downstream systems. Publishing is
// best effort; workflows never fail on publish errors.
type Publisher interface {
	Publish(ctx context.Context, event TransactionEvent) error
}

// LogPublisher writes events to the structured logger. Used when no broker is
// configured.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher constructs a logging publisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish writes the event to the logger.
func (p *LogPublisher) Publish(_ context.Context, event TransactionEvent) error {
	if p == nil || p.logger == nil {
		return nil
	}
	p.logger.Info("transaction event",
		"kind", event.Kind,
		"account_id", event.AccountID,
		"reference", event.Reference,
		"amount", event.Amount.String(),
		"balance", event.Balance.String(),
	)
	return nil
}
