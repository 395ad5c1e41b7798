package consultation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no consultation matches the lookup.
var ErrNotFound = errors.New("consultation not found")

// Repository persists consultations.
type Repository interface {
	Create(ctx context.Context, c Consultation) error
	Get(ctx context.Context, id string) (Consultation, error)
	ListByClient(ctx context.Context, clientID string) ([]Consultation, error)
	ListByLawyer(ctx context.Context, lawyerID string) ([]Consultation, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed consultation repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a consultation record.
func (r *PostgresRepository) Create(ctx context.Context, c Consultation) error {
	id, err := uuid.Parse(c.ID)
	if err != nil {
		return err
	}
	lawyerID, err := uuid.Parse(c.LawyerID)
	if err != nil {
		return err
	}
	clientID, err := uuid.Parse(c.ClientID)
	if err != nil {
		return err
	}
	var scheduledAt *time.Time
	if !c.ScheduledAt.IsZero() {
		t := c.ScheduledAt.UTC()
		scheduledAt = &t
	}
	_, err = r.db.Exec(ctx, `INSERT INTO consultations (id, lawyer_id, client_id, topic, details, scheduled_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, lawyerID, clientID, c.Topic, c.Details, scheduledAt, c.CreatedAt.UTC())
	return err
}

// Get fetches a consultation by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Consultation, error) {
	cid, err := uuid.Parse(id)
	if err != nil {
		return Consultation{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, lawyer_id, client_id, topic, details, scheduled_at, created_at
        FROM consultations WHERE id = $1`, cid)
	return scanConsultation(row)
}

// ListByClient returns the client's consultations, newest first.
func (r *PostgresRepository) ListByClient(ctx context.Context, clientID string) ([]Consultation, error) {
	cid, err := uuid.Parse(clientID)
	if err != nil {
		return nil, nil
	}
	return r.list(ctx, `SELECT id, lawyer_id, client_id, topic, details, scheduled_at, created_at
        FROM consultations WHERE client_id = $1 ORDER BY created_at DESC`, cid)
}

// ListByLawyer returns consultations booked with the lawyer, newest first.
func (r *PostgresRepository) ListByLawyer(ctx context.Context, lawyerID string) ([]Consultation, error) {
	lid, err := uuid.Parse(lawyerID)
	if err != nil {
		return nil, nil
	}
	return r.list(ctx, `SELECT id, lawyer_id, client_id, topic, details, scheduled_at, created_at
        FROM consultations WHERE lawyer_id = $1 ORDER BY created_at DESC`, lid)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg any) ([]Consultation, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Consultation
	for rows.Next() {
		c, err := scanConsultation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanConsultation(row pgx.Row) (Consultation, error) {
	var (
		id          uuid.UUID
		lawyerID    uuid.UUID
		clientID    uuid.UUID
		scheduledAt *time.Time
		createdAt   time.Time
		c           Consultation
	)
	if err := row.Scan(&id, &lawyerID, &clientID, &c.Topic, &c.Details, &scheduledAt, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Consultation{}, ErrNotFound
		}
		return Consultation{}, err
	}
	c.ID = id.String()
	c.LawyerID = lawyerID.String()
	c.ClientID = clientID.String()
	if scheduledAt != nil {
		c.ScheduledAt = scheduledAt.UTC()
	}
	c.CreatedAt = createdAt.UTC()
	return c, nil
}
