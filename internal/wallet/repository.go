package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates no wallet account exists for the requested identity.
var ErrNotFound = errors.New("wallet not found")

// Repository persists wallet account metadata. Balances are written only by
// the ledger store.
type Repository interface {
	Create(ctx context.Context, account Account) error
	Get(ctx context.Context, id string) (Account, error)
	GetByOwner(ctx context.Context, ownerID string) (Account, error)
}

// PostgresRepository stores wallet accounts in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a wallet account row with a zero balance.
func (r *PostgresRepository) Create(ctx context.Context, account Account) error {
	accountID, err := uuid.Parse(account.ID)
	if err != nil {
		return err
	}
	ownerID, err := uuid.Parse(account.OwnerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO wallets (id, owner_id, balance, currency, created_at)
        VALUES ($1, $2, 0, $3, $4)`, accountID, ownerID, account.Currency, account.CreatedAt.UTC())
	return err
}

// Get fetches a wallet account by identifier.
func (r *PostgresRepository) Get(ctx context.Context, id string) (Account, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return Account{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, balance, currency, created_at FROM wallets WHERE id = $1`, accountID)
	return scanAccount(row)
}

// GetByOwner fetches the wallet account owned by the given user.
func (r *PostgresRepository) GetByOwner(ctx context.Context, ownerID string) (Account, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return Account{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, balance, currency, created_at FROM wallets WHERE owner_id = $1`, owner)
	return scanAccount(row)
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		account   Account
		id        uuid.UUID
		ownerID   uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&id, &ownerID, &account.Balance, &account.Currency, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	account.ID = id.String()
	account.OwnerID = ownerID.String()
	account.CreatedAt = createdAt.UTC()
	return account, nil
}
