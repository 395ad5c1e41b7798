package lawyer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lawpadi/lawpadi/internal/identity"
	"github.com/lawpadi/lawpadi/internal/wallet"
)

// ErrInvalidInput indicates specialization or bar certificate is missing.
var ErrInvalidInput = errors.New("specialization and bar certificate are required")

// Service manages lawyer profiles. Registering a profile promotes the user
// to the lawyer role and provisions a wallet so the lawyer can receive
// settlements immediately.
type Service struct {
	repo    Repository
	ids     *identity.Service
	wallets *wallet.Service
}

// NewService builds a lawyer service.
func NewService(repo Repository, ids *identity.Service, wallets *wallet.Service) *Service {
	return &Service{repo: repo, ids: ids, wallets: wallets}
}

// RegisterInput captures a lawyer profile application.
type RegisterInput struct {
	UserID          string
	Specializations []string
	BarCertificate  string
}

// Register creates a lawyer profile, promotes the user and opens a wallet.
func (s *Service) Register(ctx context.Context, input RegisterInput) (Profile, error) {
	if len(input.Specializations) == 0 || input.BarCertificate == "" {
		return Profile{}, ErrInvalidInput
	}

	user, err := s.ids.Get(ctx, input.UserID)
	if err != nil {
		return Profile{}, err
	}

	profile := Profile{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		Specializations: formatSpecializations(input.Specializations),
		BarCertificate:  input.BarCertificate,
		CreatedAt:       time.Now().UTC(),
		UpdatedAt:       time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return Profile{}, err
	}

	if user.Role != identity.RoleLawyer && user.Role != identity.RoleAdmin {
		if _, err := s.ids.PromoteRole(ctx, user.ID, identity.RoleLawyer); err != nil {
			return Profile{}, err
		}
	}

	account, err := s.wallets.GetByOwner(ctx, user.ID)
	if errors.Is(err, wallet.ErrNotFound) {
		account, err = s.wallets.Create(ctx, user.ID)
	}
	if err != nil {
		return Profile{}, err
	}
	profile.WalletID = account.ID

	return profile, nil
}

// Get fetches a profile by id.
func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	return s.repo.Get(ctx, id)
}

// GetByUser fetches the profile owned by the user.
func (s *Service) GetByUser(ctx context.Context, userID string) (Profile, error) {
	return s.repo.GetByUser(ctx, userID)
}

// List returns directory profiles matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Profile, error) {
	return s.repo.List(ctx, filter)
}

// Verify marks a profile as verified. Admin only, enforced at the route.
func (s *Service) Verify(ctx context.Context, id string) (Profile, error) {
	if err := s.repo.SetVerified(ctx, id, true); err != nil {
		return Profile{}, err
	}
	return s.repo.Get(ctx, id)
}

// Rate stores the aggregate rating for a profile.
func (s *Service) Rate(ctx context.Context, id string, rating float64) error {
	if rating < 0 || rating > 5 {
		return errors.New("rating must be between 0 and 5")
	}
	return s.repo.SetRating(ctx, id, rating)
}

// formatSpecializations title-cases each word so directory filters match
// regardless of input casing.
func formatSpecializations(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		words := strings.Fields(s)
		for i, w := range words {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
		if len(words) > 0 {
			out = append(out, strings.Join(words, " "))
		}
	}
	return out
}
