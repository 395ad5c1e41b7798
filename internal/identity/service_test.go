package identity

import (
	"context"
	"errors"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, err := svc.Register(ctx, Credentials{Name: "Ada", Email: "Ada@Example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != RoleClient {
		t.Fatalf("expected client role, got %s", user.Role)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}

	authed, err := svc.Authenticate(ctx, Credentials{Email: "ada@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected same user, got %s", authed.ID)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Name: "Ada", Email: "ada@example.com", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := svc.Authenticate(ctx, Credentials{Email: "ada@example.com", Password: "wrong-pass"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Name: "Ada", Email: "ada@example.com", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(ctx, Credentials{Name: "Ada Again", Email: "ada@example.com", Password: "another-pass"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	_, err := svc.Register(context.Background(), Credentials{Name: "Ada", Email: "ada@example.com", Password: "short"})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestPromoteRole(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	user, err := svc.Register(ctx, Credentials{Name: "Ada", Email: "ada@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	promoted, err := svc.PromoteRole(ctx, user.ID, RoleLawyer)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if promoted.Role != RoleLawyer {
		t.Fatalf("expected lawyer role, got %s", promoted.Role)
	}

	if _, err := svc.PromoteRole(ctx, user.ID, Role("superuser")); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}
