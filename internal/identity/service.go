package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates the email or password did not match.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrWeakPassword indicates the password fails the minimum length check.
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

// Service manages identity lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new client account and stores a hashed password.
func (s *Service) Register(ctx context.Context, creds Credentials) (User, error) {
	if len(creds.Password) < 8 {
		return User{}, ErrWeakPassword
	}
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Name == "" {
		return User{}, ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Name:         creds.Name,
		Email:        email,
		Role:         RoleClient,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return User{}, err
	}

	return user, nil
}

// Authenticate verifies email and password.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	user, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(creds.Email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(creds.Password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// PromoteRole moves a user into a new role.
func (s *Service) PromoteRole(ctx context.Context, id string, role Role) (User, error) {
	if !role.Valid() {
		return User{}, errors.New("unknown role")
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return User{}, err
	}
	return s.repo.FindByID(ctx, id)
}
