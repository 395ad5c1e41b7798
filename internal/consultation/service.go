package consultation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lawpadi/lawpadi/internal/lawyer"
)

var (
	// ErrInvalidInput indicates the lawyer or topic is missing.
	ErrInvalidInput = errors.New("lawyer and topic are required")

	// ErrNotParticipant indicates the caller is neither the client nor the
	// booked lawyer.
	ErrNotParticipant = errors.New("not a participant of this consultation")
)

// Service books consultations against the lawyer directory.
type Service struct {
	repo    Repository
	lawyers *lawyer.Service
}

// NewService builds a consultation service.
func NewService(repo Repository, lawyers *lawyer.Service) *Service {
	return &Service{repo: repo, lawyers: lawyers}
}

// BookInput captures a consultation request.
type BookInput struct {
	ClientID    string
	LawyerID    string
	Topic       string
	Details     string
	ScheduledAt time.Time
}

// Book records a consultation with an existing lawyer.
func (s *Service) Book(ctx context.Context, input BookInput) (Consultation, error) {
	if input.LawyerID == "" || input.Topic == "" {
		return Consultation{}, ErrInvalidInput
	}
	profile, err := s.lawyers.Get(ctx, input.LawyerID)
	if err != nil {
		return Consultation{}, err
	}

	c := Consultation{
		ID:          uuid.NewString(),
		LawyerID:    profile.ID,
		ClientID:    input.ClientID,
		Topic:       input.Topic,
		Details:     input.Details,
		ScheduledAt: input.ScheduledAt,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return Consultation{}, err
	}
	return c, nil
}

// Get fetches a consultation, restricted to its participants.
func (s *Service) Get(ctx context.Context, id, userID string) (Consultation, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return Consultation{}, err
	}
	if c.ClientID == userID {
		return c, nil
	}
	profile, err := s.lawyers.GetByUser(ctx, userID)
	if err == nil && profile.ID == c.LawyerID {
		return c, nil
	}
	return Consultation{}, ErrNotParticipant
}

// ListForClient returns the caller's bookings, newest first.
func (s *Service) ListForClient(ctx context.Context, clientID string) ([]Consultation, error) {
	return s.repo.ListByClient(ctx, clientID)
}

// ListForLawyer resolves the caller's lawyer profile and returns sessions
// booked with it, newest first.
func (s *Service) ListForLawyer(ctx context.Context, userID string) ([]Consultation, error) {
	profile, err := s.lawyers.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByLawyer(ctx, profile.ID)
}
