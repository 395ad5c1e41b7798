package lawyer

import (
	"context"
	"errors"
	"testing"

	"github.com/lawpadi/lawpadi/internal/identity"
	"github.com/lawpadi/lawpadi/internal/ledger"
	"github.com/lawpadi/lawpadi/internal/wallet"
)

func newFixture(t *testing.T) (*Service, *identity.Service, identity.User) {
	t.Helper()
	ids := identity.NewService(identity.NewMemoryRepository())
	wallets := wallet.NewService(wallet.NewMemoryRepository(), ledger.NewInMemory())
	user, err := ids.Register(context.Background(), identity.Credentials{
		Name:     "Chinwe",
		Email:    "chinwe@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("register user: %v", err)
	}
	return NewService(NewMemoryRepository(), ids, wallets), ids, user
}

func TestRegisterPromotesAndOpensWallet(t *testing.T) {
	svc, ids, user := newFixture(t)
	ctx := context.Background()

	profile, err := svc.Register(ctx, RegisterInput{
		UserID:          user.ID,
		Specializations: []string{"property law", "FAMILY law"},
		BarCertificate:  "BAR-2021-00123",
	})
	if err != nil {
		t.Fatalf("register lawyer: %v", err)
	}
	if profile.WalletID == "" {
		t.Fatalf("expected wallet to be provisioned")
	}
	if profile.Verified {
		t.Fatalf("new profile must start unverified")
	}
	if profile.Specializations[0] != "Property Law" || profile.Specializations[1] != "Family Law" {
		t.Fatalf("expected title-cased specializations, got %v", profile.Specializations)
	}

	promoted, err := ids.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if promoted.Role != identity.RoleLawyer {
		t.Fatalf("expected lawyer role after registration, got %s", promoted.Role)
	}
}

func TestRegisterRejectsSecondProfile(t *testing.T) {
	svc, _, user := newFixture(t)
	ctx := context.Background()

	input := RegisterInput{UserID: user.ID, Specializations: []string{"Criminal Law"}, BarCertificate: "BAR-1"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, input)
	if !errors.Is(err, ErrProfileExists) {
		t.Fatalf("expected ErrProfileExists, got %v", err)
	}
}

func TestRegisterMissingInput(t *testing.T) {
	svc, _, user := newFixture(t)

	_, err := svc.Register(context.Background(), RegisterInput{UserID: user.ID, BarCertificate: "BAR-1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestListFiltersAndSorts(t *testing.T) {
	svc, ids, user := newFixture(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterInput{UserID: user.ID, Specializations: []string{"Property Law"}, BarCertificate: "BAR-1"})
	if err != nil {
		t.Fatalf("register first: %v", err)
	}

	second, err := ids.Register(ctx, identity.Credentials{Name: "Bayo", Email: "bayo@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("register second user: %v", err)
	}
	secondProfile, err := svc.Register(ctx, RegisterInput{UserID: second.ID, Specializations: []string{"Property Law", "Tax Law"}, BarCertificate: "BAR-2"})
	if err != nil {
		t.Fatalf("register second lawyer: %v", err)
	}
	if err := svc.Rate(ctx, secondProfile.ID, 4.5); err != nil {
		t.Fatalf("rate: %v", err)
	}

	profiles, err := svc.List(ctx, ListFilter{Specialization: "Property Law"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	if profiles[0].ID != secondProfile.ID {
		t.Fatalf("expected highest rated first, got %s", profiles[0].ID)
	}

	taxOnly, err := svc.List(ctx, ListFilter{Search: "tax"})
	if err != nil {
		t.Fatalf("list search: %v", err)
	}
	if len(taxOnly) != 1 || taxOnly[0].ID != secondProfile.ID {
		t.Fatalf("expected search to match one profile, got %v", taxOnly)
	}

	verified, err := svc.List(ctx, ListFilter{VerifiedOnly: true})
	if err != nil {
		t.Fatalf("list verified: %v", err)
	}
	if len(verified) != 0 {
		t.Fatalf("expected no verified profiles yet, got %d", len(verified))
	}

	if _, err := svc.Verify(ctx, first.ID); err != nil {
		t.Fatalf("verify: %v", err)
	}
	verified, err = svc.List(ctx, ListFilter{VerifiedOnly: true})
	if err != nil {
		t.Fatalf("list verified: %v", err)
	}
	if len(verified) != 1 || verified[0].ID != first.ID {
		t.Fatalf("expected verified profile, got %v", verified)
	}
}
