package lawyer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates no profile matches the lookup.
	ErrNotFound = errors.New("lawyer profile not found")

	// ErrProfileExists indicates the user already has a lawyer profile.
	ErrProfileExists = errors.New("lawyer profile already exists")
)

// Repository persists lawyer profiles.
type Repository interface {
	Create(ctx context.Context, profile Profile) error
	Get(ctx context.Context, id string) (Profile, error)
	GetByUser(ctx context.Context, userID string) (Profile, error)
	List(ctx context.Context, filter ListFilter) ([]Profile, error)
	SetVerified(ctx context.Context, id string, verified bool) error
	SetRating(ctx context.Context, id string, rating float64) error
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed lawyer repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a profile. The unique user index rejects a second profile.
func (r *PostgresRepository) Create(ctx context.Context, profile Profile) error {
	profileID, err := uuid.Parse(profile.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(profile.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO lawyers (id, user_id, specializations, bar_certificate, verified, rating, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		profileID, userID, profile.Specializations, profile.BarCertificate,
		profile.Verified, profile.Rating, profile.CreatedAt.UTC(), profile.UpdatedAt.UTC())
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrProfileExists
	}
	return err
}

// Get fetches a profile by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Profile, error) {
	profileID, err := uuid.Parse(id)
	if err != nil {
		return Profile{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, user_id, specializations, bar_certificate, verified, rating, created_at, updated_at
        FROM lawyers WHERE id = $1`, profileID)
	return scanProfile(row)
}

// GetByUser fetches the profile owned by the user.
func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) (Profile, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return Profile{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, user_id, specializations, bar_certificate, verified, rating, created_at, updated_at
        FROM lawyers WHERE user_id = $1`, uid)
	return scanProfile(row)
}

// List returns profiles matching the filter, highest rated first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]Profile, error) {
	query := `SELECT id, user_id, specializations, bar_certificate, verified, rating, created_at, updated_at
        FROM lawyers WHERE 1=1`
	var args []any
	if filter.Specialization != "" {
		args = append(args, filter.Specialization)
		query += fmt.Sprintf(` AND $%d = ANY(specializations)`, len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(` AND EXISTS (SELECT 1 FROM unnest(specializations) s WHERE s ILIKE $%d)`, len(args))
	}
	if filter.VerifiedOnly {
		query += ` AND verified`
	}
	query += ` ORDER BY rating DESC, created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetVerified flips the verified flag.
func (r *PostgresRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	profileID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE lawyers SET verified = $1, updated_at = $2 WHERE id = $3`,
		verified, time.Now().UTC(), profileID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetRating stores the aggregate rating.
func (r *PostgresRepository) SetRating(ctx context.Context, id string, rating float64) error {
	profileID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE lawyers SET rating = $1, updated_at = $2 WHERE id = $3`,
		rating, time.Now().UTC(), profileID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (Profile, error) {
	var (
		id        uuid.UUID
		userID    uuid.UUID
		createdAt time.Time
		updatedAt time.Time
		p         Profile
	)
	if err := row.Scan(&id, &userID, &p.Specializations, &p.BarCertificate, &p.Verified, &p.Rating, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, err
	}
	p.ID = id.String()
	p.UserID = userID.String()
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return p, nil
}
