package marketplace

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lawpadi/lawpadi/internal/ledger"
	"github.com/lawpadi/lawpadi/internal/paystack"
	"github.com/lawpadi/lawpadi/internal/wallet"
)

type stubVerifier struct {
	verification paystack.Verification
	err          error
}

func (s *stubVerifier) VerifyTransaction(_ context.Context, _ string) (paystack.Verification, error) {
	return s.verification, s.err
}

type failingRepo struct {
	Repository
	markBoughtErr error
}

func (r *failingRepo) MarkBought(ctx context.Context, templateID, buyerID string) error {
	if r.markBoughtErr != nil {
		return r.markBoughtErr
	}
	return r.Repository.MarkBought(ctx, templateID, buyerID)
}

type fixture struct {
	svc     *Service
	repo    Repository
	store   ledger.Store
	wallets *wallet.Service
	seller  wallet.Account
	buyerID string
}

func newFixture(t *testing.T, verifier Verifier) *fixture {
	t.Helper()
	store := ledger.NewInMemory()
	wallets := wallet.NewService(wallet.NewMemoryRepository(), store)
	seller, err := wallets.Create(context.Background(), uuid.NewString())
	if err != nil {
		t.Fatalf("create seller wallet: %v", err)
	}
	repo := NewMemoryRepository()
	return &fixture{
		svc:     NewService(repo, store, wallets, verifier, nil, nil),
		repo:    repo,
		store:   store,
		wallets: wallets,
		seller:  seller,
		buyerID: uuid.NewString(),
	}
}

func (f *fixture) createTemplate(t *testing.T, price int64) Template {
	t.Helper()
	template, err := f.svc.CreateTemplate(context.Background(), CreateTemplateInput{
		OwnerID:    f.seller.OwnerID,
		Title:      "Tenancy Agreement",
		Fields:     []string{"landlord_name", "tenant_name"},
		Content:    "This agreement is made between {{landlord_name}} and {{tenant_name}}.",
		Price:      decimal.NewFromInt(price),
		Visibility: VisibilityPublic,
		Type:       "agreement",
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	return template
}

func TestVerifyPurchaseCreditsSeller(t *testing.T) {
	verifier := &stubVerifier{verification: paystack.Verification{Status: "success", Paid: true, Amount: decimal.NewFromInt(2_000)}}
	f := newFixture(t, verifier)
	template := f.createTemplate(t, 2_000)

	res, err := f.svc.VerifyPurchase(context.Background(), SettlementInput{
		BuyerID:    f.buyerID,
		Reference:  "ps-tpl-1",
		TemplateID: template.ID,
	})
	if err != nil {
		t.Fatalf("verify purchase: %v", err)
	}
	if !res.SellerBalance.Equal(decimal.NewFromInt(2_000)) {
		t.Fatalf("expected seller balance 2000, got %s", res.SellerBalance)
	}
	if res.Purchase.Status != PurchaseSuccess || !res.Purchase.Amount.Equal(template.Price) {
		t.Fatalf("unexpected purchase %+v", res.Purchase)
	}

	balance, err := f.store.Balance(context.Background(), f.seller.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(2_000)) {
		t.Fatalf("expected ledger balance 2000, got %s", balance)
	}

	txs, err := f.store.ListByAccount(context.Background(), f.seller.ID, 10, 0)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("expected exactly one transaction, got %d", len(txs))
	}
	if txs[0].Kind != ledger.KindCredit || txs[0].Status != ledger.StatusCompleted {
		t.Fatalf("unexpected transaction %+v", txs[0])
	}

	purchased, err := f.svc.ListPurchased(context.Background(), f.buyerID)
	if err != nil {
		t.Fatalf("list purchased: %v", err)
	}
	if len(purchased) != 1 || purchased[0].ID != template.ID {
		t.Fatalf("expected purchased template, got %+v", purchased)
	}
}

func TestVerifyPurchaseDuplicateReference(t *testing.T) {
	verifier := &stubVerifier{verification: paystack.Verification{Status: "success", Paid: true, Amount: decimal.NewFromInt(2_000)}}
	f := newFixture(t, verifier)
	template := f.createTemplate(t, 2_000)

	input := SettlementInput{BuyerID: f.buyerID, Reference: "ps-tpl-dup", TemplateID: template.ID}
	if _, err := f.svc.VerifyPurchase(context.Background(), input); err != nil {
		t.Fatalf("first settlement: %v", err)
	}
	_, err := f.svc.VerifyPurchase(context.Background(), input)
	if !errors.Is(err, ErrDuplicatePurchase) {
		t.Fatalf("expected ErrDuplicatePurchase, got %v", err)
	}

	balance, err := f.store.Balance(context.Background(), f.seller.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(2_000)) {
		t.Fatalf("duplicate settlement changed balance: %s", balance)
	}
}

func TestVerifyPurchasePaymentNotSuccessful(t *testing.T) {
	verifier := &stubVerifier{verification: paystack.Verification{Status: "abandoned", Paid: false}}
	f := newFixture(t, verifier)
	template := f.createTemplate(t, 2_000)

	_, err := f.svc.VerifyPurchase(context.Background(), SettlementInput{
		BuyerID:    f.buyerID,
		Reference:  "ps-tpl-bad",
		TemplateID: template.ID,
	})
	if !errors.Is(err, ErrPaymentNotSuccessful) {
		t.Fatalf("expected ErrPaymentNotSuccessful, got %v", err)
	}

	txs, err := f.store.ListByAccount(context.Background(), f.seller.ID, 10, 0)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("failed verification must not touch the ledger, got %d entries", len(txs))
	}
}

func TestVerifyPurchaseGatewayTimeout(t *testing.T) {
	verifier := &stubVerifier{err: paystack.ErrGatewayTimeout}
	f := newFixture(t, verifier)
	template := f.createTemplate(t, 2_000)

	_, err := f.svc.VerifyPurchase(context.Background(), SettlementInput{
		BuyerID:    f.buyerID,
		Reference:  "ps-tpl-timeout",
		TemplateID: template.ID,
	})
	if !errors.Is(err, paystack.ErrGatewayTimeout) {
		t.Fatalf("expected ErrGatewayTimeout, got %v", err)
	}
}

func TestVerifyPurchasePartialSettlement(t *testing.T) {
	verifier := &stubVerifier{verification: paystack.Verification{Status: "success", Paid: true, Amount: decimal.NewFromInt(2_000)}}
	f := newFixture(t, verifier)
	template := f.createTemplate(t, 2_000)

	repo := &failingRepo{Repository: f.repo, markBoughtErr: errors.New("write conflict")}
	svc := NewService(repo, f.store, f.wallets, verifier, nil, nil)

	_, err := svc.VerifyPurchase(context.Background(), SettlementInput{
		BuyerID:    f.buyerID,
		Reference:  "ps-tpl-partial",
		TemplateID: template.ID,
	})
	if !errors.Is(err, ErrPartialSettlement) {
		t.Fatalf("expected ErrPartialSettlement, got %v", err)
	}

	// The seller credit landed before the failure; the balance reflects it.
	balance, err := f.store.Balance(context.Background(), f.seller.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(2_000)) {
		t.Fatalf("expected credited balance 2000, got %s", balance)
	}
}

func TestGetTemplatePrivateAccess(t *testing.T) {
	f := newFixture(t, &stubVerifier{})
	template, err := f.svc.CreateTemplate(context.Background(), CreateTemplateInput{
		OwnerID: f.seller.OwnerID,
		Title:   "NDA",
		Fields:  []string{"party"},
		Content: "Confidential between {{party}}.",
		Price:   decimal.NewFromInt(500),
		Type:    "nda",
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	if template.Visibility != VisibilityPrivate {
		t.Fatalf("expected default private visibility, got %s", template.Visibility)
	}

	if _, err := f.svc.GetTemplate(context.Background(), template.ID, f.seller.OwnerID); err != nil {
		t.Fatalf("owner must read own private template: %v", err)
	}
	_, err = f.svc.GetTemplate(context.Background(), template.ID, uuid.NewString())
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for stranger, got %v", err)
	}
}

func TestUpdateTemplateOwnerOnly(t *testing.T) {
	f := newFixture(t, &stubVerifier{})
	template := f.createTemplate(t, 2_000)

	_, err := f.svc.UpdateTemplate(context.Background(), template.ID, uuid.NewString(), UpdateTemplateInput{Title: "Hijacked"})
	if !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	updated, err := f.svc.UpdateTemplate(context.Background(), template.ID, f.seller.OwnerID, UpdateTemplateInput{Title: "Tenancy Agreement v2"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Tenancy Agreement v2" {
		t.Fatalf("expected updated title, got %q", updated.Title)
	}
}
