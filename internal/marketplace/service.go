package marketplace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lawpadi/lawpadi/internal/events"
	"github.com/lawpadi/lawpadi/internal/ledger"
	"github.com/lawpadi/lawpadi/internal/paystack"
	"github.com/lawpadi/lawpadi/internal/wallet"
)

var (
	// ErrInvalidInput indicates the reference or template id is missing.
	ErrInvalidInput = errors.New("reference and template id are required")

	// ErrPaymentNotSuccessful indicates the gateway did not confirm the payment.
	ErrPaymentNotSuccessful = errors.New("payment not successful")

	// ErrNotOwner indicates the caller does not own the template.
	ErrNotOwner = errors.New("not authorized")

	// ErrPartialSettlement indicates settlement was applied only partially. The
	// affected records require manual reconciliation; unlike other failures the
	// caller must not assume "no financial effect".
	ErrPartialSettlement = errors.New("settlement partially applied")
)

// Verifier is the slice of the payment gateway used to confirm a payment.
type Verifier interface {
	VerifyTransaction(ctx context.Context, reference string) (paystack.Verification, error)
}

// Service manages templates and settles template purchases.
type Service struct {
	repo      Repository
	store     ledger.Store
	wallets   *wallet.Service
	gateway   Verifier
	publisher events.Publisher
	logger    *slog.Logger
}

// NewService builds a marketplace service.
func NewService(repo Repository, store ledger.Store, wallets *wallet.Service, gateway Verifier, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{repo: repo, store: store, wallets: wallets, gateway: gateway, publisher: publisher, logger: logger}
}

// CreateTemplateInput captures the data required to publish a template.
type CreateTemplateInput struct {
	OwnerID    string
	Title      string
	Fields     []string
	Content    string
	Price      decimal.Decimal
	Visibility Visibility
	Type       string
}

// CreateTemplate stores a new document template.
func (s *Service) CreateTemplate(ctx context.Context, input CreateTemplateInput) (Template, error) {
	if input.Title == "" || len(input.Fields) == 0 || input.Content == "" || input.Type == "" {
		return Template{}, ErrInvalidInput
	}
	if input.Price.IsNegative() {
		return Template{}, ErrInvalidInput
	}
	visibility := input.Visibility
	if visibility == "" {
		visibility = VisibilityPrivate
	}
	if !visibility.Valid() {
		return Template{}, ErrInvalidInput
	}

	t := Template{
		ID:         uuid.NewString(),
		OwnerID:    input.OwnerID,
		Title:      input.Title,
		Fields:     input.Fields,
		Content:    input.Content,
		Price:      input.Price,
		Visibility: visibility,
		Type:       input.Type,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.repo.CreateTemplate(ctx, t); err != nil {
		return Template{}, err
	}
	return t, nil
}

// GetTemplate fetches a template, enforcing private-template access.
func (s *Service) GetTemplate(ctx context.Context, id, userID string) (Template, error) {
	t, err := s.repo.GetTemplate(ctx, id)
	if err != nil {
		return Template{}, err
	}
	if t.Visibility == VisibilityPrivate && t.OwnerID != userID && t.BuyerID != userID {
		return Template{}, ErrNotOwner
	}
	return t, nil
}

// ListVisible returns public templates plus the caller's own.
func (s *Service) ListVisible(ctx context.Context, userID string) ([]Template, error) {
	return s.repo.ListVisible(ctx, userID)
}

// ListOwned returns the caller's templates.
func (s *Service) ListOwned(ctx context.Context, ownerID string) ([]Template, error) {
	return s.repo.ListOwned(ctx, ownerID)
}

// ListPurchased returns templates the caller has bought.
func (s *Service) ListPurchased(ctx context.Context, buyerID string) ([]Template, error) {
	return s.repo.ListPurchased(ctx, buyerID)
}

// UpdateTemplateInput carries a partial template update.
type UpdateTemplateInput struct {
	Title      string
	Fields     []string
	Content    string
	Visibility Visibility
}

// UpdateTemplate applies a partial update after an ownership check.
func (s *Service) UpdateTemplate(ctx context.Context, id, userID string, input UpdateTemplateInput) (Template, error) {
	t, err := s.repo.GetTemplate(ctx, id)
	if err != nil {
		return Template{}, err
	}
	if t.OwnerID != userID {
		return Template{}, ErrNotOwner
	}
	if input.Title != "" {
		t.Title = input.Title
	}
	if len(input.Fields) > 0 {
		t.Fields = input.Fields
	}
	if input.Content != "" {
		t.Content = input.Content
	}
	if input.Visibility != "" {
		if !input.Visibility.Valid() {
			return Template{}, ErrInvalidInput
		}
		t.Visibility = input.Visibility
	}
	if err := s.repo.UpdateTemplate(ctx, t); err != nil {
		return Template{}, err
	}
	return t, nil
}

// DeleteTemplate removes a template after an ownership check.
func (s *Service) DeleteTemplate(ctx context.Context, id, userID string) error {
	t, err := s.repo.GetTemplate(ctx, id)
	if err != nil {
		return err
	}
	if t.OwnerID != userID {
		return ErrNotOwner
	}
	return s.repo.DeleteTemplate(ctx, id)
}

// SettlementInput captures a purchase-verification request.
type SettlementInput struct {
	BuyerID    string
	Reference  string
	TemplateID string
}

// SettlementResult is the outcome of a successful settlement.
type SettlementResult struct {
	Purchase      Purchase
	SellerBalance decimal.Decimal
}

// VerifyPurchase settles a template purchase: it verifies the payment,
// records the purchase, credits the seller's wallet and marks the template
// bought. A persistence failure after a prior step succeeded is surfaced as
// ErrPartialSettlement for manual reconciliation.
func (s *Service) VerifyPurchase(ctx context.Context, input SettlementInput) (SettlementResult, error) {
	if input.Reference == "" || input.TemplateID == "" {
		return SettlementResult{}, ErrInvalidInput
	}

	verification, err := s.gateway.VerifyTransaction(ctx, input.Reference)
	if err != nil {
		if errors.Is(err, paystack.ErrGatewayTimeout) {
			return SettlementResult{}, err
		}
		return SettlementResult{}, fmt.Errorf("%w: %v", ErrPaymentNotSuccessful, err)
	}
	if !verification.Paid {
		return SettlementResult{}, ErrPaymentNotSuccessful
	}

	template, err := s.repo.GetTemplate(ctx, input.TemplateID)
	if err != nil {
		return SettlementResult{}, err
	}
	sellerWallet, err := s.wallets.GetByOwner(ctx, template.OwnerID)
	if err != nil {
		return SettlementResult{}, err
	}

	purchase := Purchase{
		ID:         uuid.NewString(),
		BuyerID:    input.BuyerID,
		TemplateID: template.ID,
		Amount:     template.Price,
		Reference:  input.Reference,
		Status:     PurchaseSuccess,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repo.CreatePurchase(ctx, purchase); err != nil {
		return SettlementResult{}, err
	}

	sellerBalance := sellerWallet.Balance
	if template.Price.IsPositive() {
		res, err := s.store.Credit(ctx, sellerWallet.ID, template.Price, input.Reference,
			fmt.Sprintf("Template sale: %s", template.Title))
		if err != nil {
			return SettlementResult{}, s.partial(input.Reference, "credit seller wallet", err)
		}
		sellerBalance = res.Balance
	}

	if err := s.repo.MarkBought(ctx, template.ID, input.BuyerID); err != nil {
		return SettlementResult{}, s.partial(input.Reference, "mark template bought", err)
	}

	s.publish(ctx, events.TransactionEvent{
		Kind:        events.KindTemplateSold,
		AccountID:   sellerWallet.ID,
		Reference:   input.Reference,
		Amount:      template.Price,
		Balance:     sellerBalance,
		CompletedAt: time.Now().UTC(),
	})

	return SettlementResult{Purchase: purchase, SellerBalance: sellerBalance}, nil
}

func (s *Service) partial(reference, step string, cause error) error {
	if s.logger != nil {
		s.logger.Error("settlement partially applied", "reference", reference, "step", step, "error", cause)
	}
	return fmt.Errorf("%w at %s: %v", ErrPartialSettlement, step, cause)
}

func (s *Service) publish(ctx context.Context, event events.TransactionEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil && s.logger != nil {
		s.logger.Warn("publish transaction event", "kind", event.Kind, "reference", event.Reference, "error", err)
	}
}
