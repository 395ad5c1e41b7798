package chat

import (
	"context"
	"sort"
	"sync"
)

type memoryRepository struct {
	mu       sync.RWMutex
	messages []Message
}

// NewMemoryRepository builds an in-memory message store for development and
// tests.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *memoryRepository) Between(_ context.Context, userID, partnerID string) ([]Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Message
	for _, msg := range r.messages {
		if (msg.SenderID == userID && msg.RecipientID == partnerID) ||
			(msg.SenderID == partnerID && msg.RecipientID == userID) {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

func (r *memoryRepository) Inbox(_ context.Context, userID string) ([]Thread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	latest := make(map[string]Message)
	for _, msg := range r.messages {
		var partner string
		switch userID {
		case msg.SenderID:
			partner = msg.RecipientID
		case msg.RecipientID:
			partner = msg.SenderID
		default:
			continue
		}
		if prev, ok := latest[partner]; !ok || msg.SentAt.After(prev.SentAt) {
			latest[partner] = msg
		}
	}

	out := make([]Thread, 0, len(latest))
	for partner, msg := range latest {
		out = append(out, Thread{PartnerID: partner, LastMessage: msg.Body, LastAt: msg.SentAt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastAt.After(out[j].LastAt) })
	return out, nil
}
