package chat

import (
	"errors"
	"sync"
	"testing"
	"time"
)

type recordingConn struct {
	mu       sync.Mutex
	messages []Message
	fail     bool
}

func (c *recordingConn) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("connection closed")
	}
	c.messages = append(c.messages, msg)
	return nil
}

func (c *recordingConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func TestDeliverFansOutToAllConnections(t *testing.T) {
	reg := NewRegistry()
	phone := &recordingConn{}
	laptop := &recordingConn{}
	reg.Join("lawyer-1", phone)
	reg.Join("lawyer-1", laptop)

	err := reg.Deliver(Message{SenderID: "client-1", RecipientID: "lawyer-1", Body: "hello", SentAt: time.Now()})
	if err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if phone.count() != 1 || laptop.count() != 1 {
		t.Fatalf("expected delivery on both connections, got %d and %d", phone.count(), laptop.count())
	}
}

func TestDeliverOffline(t *testing.T) {
	reg := NewRegistry()

	err := reg.Deliver(Message{SenderID: "client-1", RecipientID: "nobody"})
	if !errors.Is(err, ErrOffline) {
		t.Fatalf("expected ErrOffline, got %v", err)
	}
}

func TestLeaveRemovesPresence(t *testing.T) {
	reg := NewRegistry()
	conn := &recordingConn{}
	reg.Join("lawyer-1", conn)
	if !reg.Online("lawyer-1") {
		t.Fatalf("expected online after join")
	}

	reg.Leave("lawyer-1", conn)
	if reg.Online("lawyer-1") {
		t.Fatalf("expected offline after leave")
	}
	if err := reg.Deliver(Message{RecipientID: "lawyer-1"}); !errors.Is(err, ErrOffline) {
		t.Fatalf("expected ErrOffline after leave, got %v", err)
	}
}

func TestDeliverDropsDeadConnections(t *testing.T) {
	reg := NewRegistry()
	dead := &recordingConn{fail: true}
	live := &recordingConn{}
	reg.Join("lawyer-1", dead)
	reg.Join("lawyer-1", live)

	if err := reg.Deliver(Message{RecipientID: "lawyer-1", Body: "ping"}); err != nil {
		t.Fatalf("deliver: %v", err)
	}
	if live.count() != 1 {
		t.Fatalf("expected live connection to receive message")
	}

	// The dead connection is pruned; only the live one remains.
	if err := reg.Deliver(Message{RecipientID: "lawyer-1", Body: "again"}); err != nil {
		t.Fatalf("second deliver: %v", err)
	}
	if live.count() != 2 {
		t.Fatalf("expected 2 messages on live connection, got %d", live.count())
	}
}

func TestConcurrentJoinLeave(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn := &recordingConn{}
			reg.Join("user-1", conn)
			reg.Online("user-1")
			reg.Leave("user-1", conn)
		}()
	}
	wg.Wait()

	if reg.Online("user-1") {
		t.Fatalf("expected no connections after all leave")
	}
}
