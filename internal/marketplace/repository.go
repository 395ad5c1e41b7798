package marketplace

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrTemplateNotFound indicates no template matches the identifier.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrDuplicatePurchase indicates a purchase with the reference already
	// exists; settlement must not be applied again.
	ErrDuplicatePurchase = errors.New("duplicate purchase reference")
)

const uniqueViolationCode = "23505"

// Repository persists templates and purchases.
type Repository interface {
	CreateTemplate(ctx context.Context, t Template) error
	GetTemplate(ctx context.Context, id string) (Template, error)
	ListVisible(ctx context.Context, userID string) ([]Template, error)
	ListOwned(ctx context.Context, ownerID string) ([]Template, error)
	ListPurchased(ctx context.Context, buyerID string) ([]Template, error)
	UpdateTemplate(ctx context.Context, t Template) error
	DeleteTemplate(ctx context.Context, id string) error
	MarkBought(ctx context.Context, templateID, buyerID string) error

	// CreatePurchase inserts the purchase; the unique reference index rejects
	// concurrent duplicate settlements at the storage layer.
	CreatePurchase(ctx context.Context, p Purchase) error
}

// PostgresRepository stores marketplace records in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateTemplate(ctx context.Context, t Template) error {
	id, err := uuid.Parse(t.ID)
	if err != nil {
		return err
	}
	owner, err := uuid.Parse(t.OwnerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO templates (id, owner_id, title, fields, content, price, visibility, template_type, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		id, owner, t.Title, t.Fields, t.Content, t.Price, string(t.Visibility), t.Type, t.CreatedAt.UTC())
	return err
}

func (r *PostgresRepository) GetTemplate(ctx context.Context, id string) (Template, error) {
	templateID, err := uuid.Parse(id)
	if err != nil {
		return Template{}, ErrTemplateNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, buyer_id, title, fields, content, price, visibility, template_type, created_at, updated_at
        FROM templates WHERE id = $1`, templateID)
	return scanTemplate(row)
}

func (r *PostgresRepository) ListVisible(ctx context.Context, userID string) ([]Template, error) {
	owner, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, buyer_id, title, fields, content, price, visibility, template_type, created_at, updated_at
        FROM templates WHERE visibility = $1 OR owner_id = $2 ORDER BY created_at DESC`, string(VisibilityPublic), owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTemplates(rows)
}

func (r *PostgresRepository) ListOwned(ctx context.Context, ownerID string) ([]Template, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, buyer_id, title, fields, content, price, visibility, template_type, created_at, updated_at
        FROM templates WHERE owner_id = $1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTemplates(rows)
}

func (r *PostgresRepository) ListPurchased(ctx context.Context, buyerID string) ([]Template, error) {
	buyer, err := uuid.Parse(buyerID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT t.id, t.owner_id, t.buyer_id, t.title, t.fields, t.content, t.price, t.visibility, t.template_type, t.created_at, t.updated_at
        FROM templates t INNER JOIN purchases p ON p.template_id = t.id
        WHERE p.buyer_id = $1 AND p.status = $2 ORDER BY p.created_at DESC`, buyer, string(PurchaseSuccess))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTemplates(rows)
}

func (r *PostgresRepository) UpdateTemplate(ctx context.Context, t Template) error {
	id, err := uuid.Parse(t.ID)
	if err != nil {
		return ErrTemplateNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE templates SET title = $1, fields = $2, content = $3, visibility = $4, price = $5, updated_at = $6
        WHERE id = $7`, t.Title, t.Fields, t.Content, string(t.Visibility), t.Price, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteTemplate(ctx context.Context, id string) error {
	templateID, err := uuid.Parse(id)
	if err != nil {
		return ErrTemplateNotFound
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM templates WHERE id = $1`, templateID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (r *PostgresRepository) MarkBought(ctx context.Context, templateID, buyerID string) error {
	id, err := uuid.Parse(templateID)
	if err != nil {
		return ErrTemplateNotFound
	}
	buyer, err := uuid.Parse(buyerID)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE templates SET buyer_id = $1, updated_at = $2 WHERE id = $3`, buyer, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTemplateNotFound
	}
	return nil
}

func (r *PostgresRepository) CreatePurchase(ctx context.Context, p Purchase) error {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return err
	}
	buyer, err := uuid.Parse(p.BuyerID)
	if err != nil {
		return err
	}
	template, err := uuid.Parse(p.TemplateID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO purchases (id, buyer_id, template_id, amount, reference, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, buyer, template, p.Amount, p.Reference, string(p.Status), p.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicatePurchase
		}
		return err
	}
	return nil
}

func scanTemplate(row pgx.Row) (Template, error) {
	var (
		t          Template
		id         uuid.UUID
		owner      uuid.UUID
		buyer      *uuid.UUID
		visibility string
		createdAt  time.Time
		updatedAt  time.Time
	)
	if err := row.Scan(&id, &owner, &buyer, &t.Title, &t.Fields, &t.Content, &t.Price, &visibility, &t.Type, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Template{}, ErrTemplateNotFound
		}
		return Template{}, err
	}
	t.ID = id.String()
	t.OwnerID = owner.String()
	if buyer != nil {
		t.BuyerID = buyer.String()
	}
	t.Visibility = Visibility(visibility)
	t.CreatedAt = createdAt.UTC()
	t.UpdatedAt = updatedAt.UTC()
	return t, nil
}

func collectTemplates(rows pgx.Rows) ([]Template, error) {
	var out []Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
