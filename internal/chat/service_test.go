package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func newChatService() (*Service, *Registry) {
	reg := NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(NewMemoryRepository(), reg, logger), reg
}

func TestSendPersistsAndDeliversWhenOnline(t *testing.T) {
	svc, reg := newChatService()
	ctx := context.Background()
	conn := &recordingConn{}
	reg.Join("lawyer-1", conn)

	msg, err := svc.Send(ctx, SendInput{SenderID: "client-1", RecipientID: "lawyer-1", Body: "hello"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if msg.ID == "" || msg.SentAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %+v", msg)
	}
	if conn.count() != 1 {
		t.Fatalf("expected live delivery, got %d messages", conn.count())
	}

	history, err := svc.History(ctx, "lawyer-1", "client-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Body != "hello" {
		t.Fatalf("expected persisted message, got %v", history)
	}
}

func TestSendSucceedsWhenRecipientOffline(t *testing.T) {
	svc, _ := newChatService()
	ctx := context.Background()

	if _, err := svc.Send(ctx, SendInput{SenderID: "client-1", RecipientID: "lawyer-1", Body: "are you there?"}); err != nil {
		t.Fatalf("send to offline recipient: %v", err)
	}

	history, err := svc.History(ctx, "client-1", "lawyer-1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected message stored for later, got %d", len(history))
	}
}

func TestSendValidation(t *testing.T) {
	svc, _ := newChatService()
	ctx := context.Background()

	if _, err := svc.Send(ctx, SendInput{SenderID: "client-1", RecipientID: "lawyer-1"}); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
	if _, err := svc.Send(ctx, SendInput{SenderID: "client-1", RecipientID: "client-1", Body: "hi"}); !errors.Is(err, ErrSelfMessage) {
		t.Fatalf("expected ErrSelfMessage, got %v", err)
	}
}

func TestHistoryOrderedOldestFirst(t *testing.T) {
	svc, _ := newChatService()
	ctx := context.Background()
	repo := svc.repo

	base := time.Now().UTC()
	msgs := []Message{
		{ID: "m-2", SenderID: "b", RecipientID: "a", Body: "second", SentAt: base.Add(time.Minute)},
		{ID: "m-1", SenderID: "a", RecipientID: "b", Body: "first", SentAt: base},
		{ID: "m-3", SenderID: "a", RecipientID: "c", Body: "other thread", SentAt: base.Add(2 * time.Minute)},
	}
	for _, m := range msgs {
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	history, err := svc.History(ctx, "a", "b")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[0].ID != "m-1" || history[1].ID != "m-2" {
		t.Fatalf("expected conversation in send order, got %v", history)
	}
}

func TestInboxGroupsByPartnerNewestFirst(t *testing.T) {
	svc, _ := newChatService()
	ctx := context.Background()
	repo := svc.repo

	base := time.Now().UTC()
	msgs := []Message{
		{ID: "m-1", SenderID: "a", RecipientID: "b", Body: "old to b", SentAt: base},
		{ID: "m-2", SenderID: "b", RecipientID: "a", Body: "latest with b", SentAt: base.Add(3 * time.Minute)},
		{ID: "m-3", SenderID: "c", RecipientID: "a", Body: "latest with c", SentAt: base.Add(time.Minute)},
		{ID: "m-4", SenderID: "b", RecipientID: "c", Body: "not a's thread", SentAt: base.Add(5 * time.Minute)},
	}
	for _, m := range msgs {
		if err := repo.Create(ctx, m); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	threads, err := svc.Inbox(ctx, "a")
	if err != nil {
		t.Fatalf("inbox: %v", err)
	}
	if len(threads) != 2 {
		t.Fatalf("expected 2 threads, got %d", len(threads))
	}
	if threads[0].PartnerID != "b" || threads[0].LastMessage != "latest with b" {
		t.Fatalf("expected newest thread first, got %+v", threads[0])
	}
	if threads[1].PartnerID != "c" || threads[1].LastMessage != "latest with c" {
		t.Fatalf("expected c thread second, got %+v", threads[1])
	}
}
