package consultation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lawpadi/lawpadi/internal/identity"
	"github.com/lawpadi/lawpadi/internal/lawyer"
	"github.com/lawpadi/lawpadi/internal/ledger"
	"github.com/lawpadi/lawpadi/internal/wallet"
)

type fixture struct {
	svc     *Service
	client  identity.User
	counsel identity.User
	profile lawyer.Profile
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	ids := identity.NewService(identity.NewMemoryRepository())
	wallets := wallet.NewService(wallet.NewMemoryRepository(), ledger.NewInMemory())
	lawyers := lawyer.NewService(lawyer.NewMemoryRepository(), ids, wallets)

	client, err := ids.Register(ctx, identity.Credentials{Name: "Chinwe", Email: "chinwe@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("register client: %v", err)
	}
	counsel, err := ids.Register(ctx, identity.Credentials{Name: "Bayo", Email: "bayo@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("register counsel: %v", err)
	}
	profile, err := lawyers.Register(ctx, lawyer.RegisterInput{
		UserID:          counsel.ID,
		Specializations: []string{"Property Law"},
		BarCertificate:  "BAR-2021-00123",
	})
	if err != nil {
		t.Fatalf("register lawyer: %v", err)
	}

	return fixture{
		svc:     NewService(NewMemoryRepository(), lawyers),
		client:  client,
		counsel: counsel,
		profile: profile,
	}
}

func TestBookAndListBothSides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booked, err := f.svc.Book(ctx, BookInput{
		ClientID:    f.client.ID,
		LawyerID:    f.profile.ID,
		Topic:       "Land dispute",
		Details:     "Boundary disagreement in Lekki",
		ScheduledAt: time.Now().Add(48 * time.Hour),
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if booked.ID == "" || booked.CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at to be set, got %+v", booked)
	}

	mine, err := f.svc.ListForClient(ctx, f.client.ID)
	if err != nil {
		t.Fatalf("list for client: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != booked.ID {
		t.Fatalf("expected client to see the booking, got %v", mine)
	}

	sessions, err := f.svc.ListForLawyer(ctx, f.counsel.ID)
	if err != nil {
		t.Fatalf("list for lawyer: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != booked.ID {
		t.Fatalf("expected lawyer to see the booking, got %v", sessions)
	}
}

func TestBookUnknownLawyer(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Book(context.Background(), BookInput{
		ClientID: f.client.ID,
		LawyerID: "missing",
		Topic:    "Land dispute",
	})
	if !errors.Is(err, lawyer.ErrNotFound) {
		t.Fatalf("expected lawyer.ErrNotFound, got %v", err)
	}
}

func TestBookMissingTopic(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Book(context.Background(), BookInput{ClientID: f.client.ID, LawyerID: f.profile.ID})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGetRestrictedToParticipants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	booked, err := f.svc.Book(ctx, BookInput{ClientID: f.client.ID, LawyerID: f.profile.ID, Topic: "Tenancy review"})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if _, err := f.svc.Get(ctx, booked.ID, f.client.ID); err != nil {
		t.Fatalf("client get: %v", err)
	}
	if _, err := f.svc.Get(ctx, booked.ID, f.counsel.ID); err != nil {
		t.Fatalf("lawyer get: %v", err)
	}
	if _, err := f.svc.Get(ctx, booked.ID, "stranger"); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestListForLawyerRequiresProfile(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListForLawyer(context.Background(), f.client.ID)
	if !errors.Is(err, lawyer.ErrNotFound) {
		t.Fatalf("expected lawyer.ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	repo := NewMemoryRepository()
	f.svc.repo = repo
	older := Consultation{ID: "c-1", LawyerID: f.profile.ID, ClientID: f.client.ID, Topic: "First", CreatedAt: time.Now().Add(-time.Hour)}
	newer := Consultation{ID: "c-2", LawyerID: f.profile.ID, ClientID: f.client.ID, Topic: "Second", CreatedAt: time.Now()}
	if err := repo.Create(ctx, older); err != nil {
		t.Fatalf("create older: %v", err)
	}
	if err := repo.Create(ctx, newer); err != nil {
		t.Fatalf("create newer: %v", err)
	}

	mine, err := f.svc.ListForClient(ctx, f.client.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != "c-2" {
		t.Fatalf("expected newest first, got %v", mine)
	}
}
