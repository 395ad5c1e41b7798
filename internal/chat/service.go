package chat

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidMessage indicates the recipient or body is missing.
var ErrInvalidMessage = errors.New("recipient and message are required")

// ErrSelfMessage indicates the sender addressed themselves.
var ErrSelfMessage = errors.New("cannot message yourself")

// Service persists messages and pushes them to recipients who are online.
// Offline recipients read the message from history on their next fetch.
type Service struct {
	repo     Repository
	registry *Registry
	logger   *slog.Logger
}

// NewService builds a chat service.
func NewService(repo Repository, registry *Registry, logger *slog.Logger) *Service {
	return &Service{repo: repo, registry: registry, logger: logger}
}

// SendInput captures an outgoing message.
type SendInput struct {
	SenderID    string
	RecipientID string
	Body        string
}

// Send stores the message and attempts live delivery. Delivery failures are
// logged, not returned; persistence is the source of truth.
func (s *Service) Send(ctx context.Context, input SendInput) (Message, error) {
	if input.RecipientID == "" || input.Body == "" {
		return Message{}, ErrInvalidMessage
	}
	if input.RecipientID == input.SenderID {
		return Message{}, ErrSelfMessage
	}

	msg := Message{
		ID:          uuid.NewString(),
		SenderID:    input.SenderID,
		RecipientID: input.RecipientID,
		Body:        input.Body,
		SentAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return Message{}, err
	}

	if err := s.registry.Deliver(msg); err != nil && !errors.Is(err, ErrOffline) {
		s.logger.Warn("chat delivery failed", "recipient", msg.RecipientID, "error", err)
	}
	return msg, nil
}

// History returns the conversation between the caller and the partner,
// oldest first.
func (s *Service) History(ctx context.Context, userID, partnerID string) ([]Message, error) {
	return s.repo.Between(ctx, userID, partnerID)
}

// Inbox returns the caller's conversations, most recent first.
func (s *Service) Inbox(ctx context.Context, userID string) ([]Thread, error) {
	return s.repo.Inbox(ctx, userID)
}
