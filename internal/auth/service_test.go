package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/lawpadi/lawpadi/internal/config"
	"github.com/lawpadi/lawpadi/internal/identity"
)

func newTokenService(ttl time.Duration) *Service {
	return NewService(config.Config{JWTSecret: "test-secret", AccessTokenTTL: ttl})
}

func TestIssueAndVerify(t *testing.T) {
	svc := newTokenService(time.Hour)
	user := identity.User{ID: "user-1", Role: identity.RoleLawyer}

	token, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token.ExpiresIn != 3600 {
		t.Fatalf("expected 3600s expiry, got %d", token.ExpiresIn)
	}

	claims, err := svc.Verify(token.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "user-1" || claims.Role != string(identity.RoleLawyer) {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := newTokenService(-time.Minute)

	token, err := svc.Issue(identity.User{ID: "user-1", Role: identity.RoleClient})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.Verify(token.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := newTokenService(time.Hour).Issue(identity.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := NewService(config.Config{JWTSecret: "different-secret", AccessTokenTTL: time.Hour})
	if _, err := other.Verify(token.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}
