package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Thread summarizes a conversation for the inbox view.
type Thread struct {
	PartnerID   string    `json:"partner"`
	LastMessage string    `json:"last_message"`
	LastAt      time.Time `json:"last_at"`
}

// Repository persists chat messages.
type Repository interface {
	Create(ctx context.Context, msg Message) error
	Between(ctx context.Context, userID, partnerID string) ([]Message, error)
	Inbox(ctx context.Context, userID string) ([]Thread, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed message store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a message.
func (r *PostgresRepository) Create(ctx context.Context, msg Message) error {
	id, err := uuid.Parse(msg.ID)
	if err != nil {
		return err
	}
	sender, err := uuid.Parse(msg.SenderID)
	if err != nil {
		return err
	}
	recipient, err := uuid.Parse(msg.RecipientID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO chat_messages (id, sender_id, recipient_id, body, sent_at)
        VALUES ($1, $2, $3, $4, $5)`,
		id, sender, recipient, msg.Body, msg.SentAt.UTC())
	return err
}

// Between returns every message exchanged by the pair, oldest first.
func (r *PostgresRepository) Between(ctx context.Context, userID, partnerID string) ([]Message, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil
	}
	pid, err := uuid.Parse(partnerID)
	if err != nil {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT id, sender_id, recipient_id, body, sent_at
        FROM chat_messages
        WHERE (sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)
        ORDER BY sent_at ASC`, uid, pid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var (
			id        uuid.UUID
			sender    uuid.UUID
			recipient uuid.UUID
			msg       Message
			sentAt    time.Time
		)
		if err := rows.Scan(&id, &sender, &recipient, &msg.Body, &sentAt); err != nil {
			return nil, err
		}
		msg.ID = id.String()
		msg.SenderID = sender.String()
		msg.RecipientID = recipient.String()
		msg.SentAt = sentAt.UTC()
		out = append(out, msg)
	}
	return out, rows.Err()
}

// Inbox returns one thread per conversation partner with the latest
// message, newest conversation first.
func (r *PostgresRepository) Inbox(ctx context.Context, userID string) ([]Thread, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `SELECT partner, body, sent_at FROM (
            SELECT DISTINCT ON (partner)
                CASE WHEN sender_id = $1 THEN recipient_id ELSE sender_id END AS partner,
                body, sent_at
            FROM chat_messages
            WHERE sender_id = $1 OR recipient_id = $1
            ORDER BY partner, sent_at DESC
        ) threads ORDER BY sent_at DESC`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Thread
	for rows.Next() {
		var (
			partner uuid.UUID
			t       Thread
			sentAt  time.Time
		)
		if err := rows.Scan(&partner, &t.LastMessage, &sentAt); err != nil {
			return nil, err
		}
		t.PartnerID = partner.String()
		t.LastAt = sentAt.UTC()
		out = append(out, t)
	}
	return out, rows.Err()
}
