package chat

import (
	"errors"
	"sync"
	"time"
)

// ErrOffline indicates the recipient has no live connections.
var ErrOffline = errors.New("user is not connected")

// Message is the wire contract exchanged between chat participants. The
// same shape is persisted so history survives reconnects.
type Message struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender"`
	RecipientID string    `json:"recipient"`
	Body        string    `json:"body"`
	SentAt      time.Time `json:"sent_at"`
}

// Conn is the slice of a live connection the registry needs. The transport
// layer owns the actual socket.
type Conn interface {
	Send(msg Message) error
}

// Registry is a per-process presence table mapping user ids to their live
// connections. A user may be connected from several devices at once. State
// is process-scoped; nothing is persisted.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]map[Conn]struct{}
}

// NewRegistry builds an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]map[Conn]struct{})}
}

// Join records a live connection for the user.
func (r *Registry) Join(userID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.conns[userID]
	if !ok {
		set = make(map[Conn]struct{})
		r.conns[userID] = set
	}
	set[conn] = struct{}{}
}

// Leave removes the connection. The user's entry disappears with its last
// connection.
func (r *Registry) Leave(userID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.conns[userID]
	if !ok {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(r.conns, userID)
	}
}

// Online reports whether the user has at least one live connection.
func (r *Registry) Online(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns[userID]) > 0
}

// Deliver fans the message out to every live connection of the recipient.
// Connections that fail to send are dropped from the registry.
func (r *Registry) Deliver(msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.conns[msg.RecipientID]
	if !ok || len(set) == 0 {
		return ErrOffline
	}

	delivered := 0
	for conn := range set {
		if err := conn.Send(msg); err != nil {
			delete(set, conn)
			continue
		}
		delivered++
	}
	if len(set) == 0 {
		delete(r.conns, msg.RecipientID)
	}
	if delivered == 0 {
		return ErrOffline
	}
	return nil
}
