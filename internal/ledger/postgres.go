package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const uniqueViolationCode = "23505"

// PostgresStore persists transactions in PostgreSQL. The unique index on
// reference_number is the idempotency barrier; balance mutations run inside a
// single database transaction with the ledger insert.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore constructs a Postgres-backed ledger store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureAccount verifies the wallet row exists.
func (s *PostgresStore) EnsureAccount(ctx context.Context, accountID string) error {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return fmt.Errorf("parse account id: %w", err)
	}
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wallets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrAccountNotFound
	}
	return nil
}

// Balance returns the wallet balance.
func (s *PostgresStore) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse account id: %w", err)
	}
	var balance decimal.Decimal
	if err := s.db.QueryRow(ctx, `SELECT balance FROM wallets WHERE id = $1`, id).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, ErrAccountNotFound
		}
		return decimal.Zero, err
	}
	return balance, nil
}

// Append inserts a transaction record.
func (s *PostgresStore) Append(ctx context.Context, tx Transaction) (Transaction, error) {
	if err := validate(tx); err != nil {
		return Transaction{}, err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	accountID, err := uuid.Parse(tx.AccountID)
	if err != nil {
		return Transaction{}, fmt.Errorf("parse account id: %w", err)
	}

	_, err = s.db.Exec(ctx, `INSERT INTO transactions (id, account_id, amount, kind, status, reference_number, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.MustParse(tx.ID), accountID, tx.Amount, string(tx.Kind), string(tx.Status), tx.Reference, tx.Description, tx.CreatedAt)
	if err != nil {
		return Transaction{}, mapDuplicate(err)
	}
	return tx, nil
}

// FindByReference looks up a transaction by its reference number.
func (s *PostgresStore) FindByReference(ctx context.Context, reference string) (Transaction, error) {
	row := s.db.QueryRow(ctx, `SELECT id, account_id, amount, kind, status, reference_number, description, created_at
        FROM transactions WHERE reference_number = $1`, reference)
	return scanTransaction(row)
}

// ListByAccount returns the account's transactions, newest first.
func (s *PostgresStore) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]Transaction, error) {
	id, err := uuid.Parse(accountID)
	if err != nil {
		return nil, fmt.Errorf("parse account id: %w", err)
	}
	rows, err := s.db.Query(ctx, `SELECT id, account_id, amount, kind, status, reference_number, description, created_at
        FROM transactions WHERE account_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, id, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// ListAll returns transactions across all accounts, newest first.
func (s *PostgresStore) ListAll(ctx context.Context, limit, offset int) ([]Transaction, error) {
	rows, err := s.db.Query(ctx, `SELECT id, account_id, amount, kind, status, reference_number, description, created_at
        FROM transactions ORDER BY created_at DESC LIMIT $1 OFFSET $2`, normalizeLimit(limit), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTransactions(rows)
}

// Credit appends a completed credit and increments the balance atomically.
func (s *PostgresStore) Credit(ctx context.Context, accountID string, amount decimal.Decimal, reference, description string) (CreditResult, error) {
	if !amount.IsPositive() {
		return CreditResult{}, fmt.Errorf("credit amount must be positive")
	}
	acctID, err := uuid.Parse(accountID)
	if err != nil {
		return CreditResult{}, fmt.Errorf("parse account id: %w", err)
	}

	dbtx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return CreditResult{}, err
	}
	defer dbtx.Rollback(ctx) // nolint:errcheck

	record := Transaction{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		Amount:      amount,
		Kind:        KindCredit,
		Status:      StatusCompleted,
		Reference:   reference,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = dbtx.Exec(ctx, `INSERT INTO transactions (id, account_id, amount, kind, status, reference_number, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.MustParse(record.ID), acctID, record.Amount, string(record.Kind), string(record.Status), record.Reference, record.Description, record.CreatedAt)
	if err != nil {
		return CreditResult{}, mapDuplicate(err)
	}

	var balance decimal.Decimal
	if err := dbtx.QueryRow(ctx, `UPDATE wallets SET balance = balance + $1 WHERE id = $2 RETURNING balance`, amount, acctID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CreditResult{}, ErrAccountNotFound
		}
		return CreditResult{}, err
	}

	if err := dbtx.Commit(ctx); err != nil {
		return CreditResult{}, err
	}
	return CreditResult{Transaction: record, Balance: balance}, nil
}

// SettleDebit completes a pending debit, decrementing the balance only when
// sufficient. The conditional update serializes concurrent debits per account.
func (s *PostgresStore) SettleDebit(ctx context.Context, reference string) (decimal.Decimal, error) {
	dbtx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return decimal.Zero, err
	}
	defer dbtx.Rollback(ctx) // nolint:errcheck

	var (
		txID      uuid.UUID
		accountID uuid.UUID
		amount    decimal.Decimal
	)
	err = dbtx.QueryRow(ctx, `SELECT id, account_id, amount FROM transactions
        WHERE reference_number = $1 AND kind = $2 AND status = $3 FOR UPDATE`,
		reference, string(KindDebit), string(StatusPending)).Scan(&txID, &accountID, &amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, ErrNotFound
		}
		return decimal.Zero, err
	}

	var balance decimal.Decimal
	err = dbtx.QueryRow(ctx, `UPDATE wallets SET balance = balance - $1 WHERE id = $2 AND balance >= $1 RETURNING balance`, amount, accountID).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, ErrInsufficientFunds
		}
		return decimal.Zero, err
	}

	if _, err := dbtx.Exec(ctx, `UPDATE transactions SET status = $1 WHERE id = $2`, string(StatusCompleted), txID); err != nil {
		return decimal.Zero, err
	}
	if err := dbtx.Commit(ctx); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

// FailDebit flips a pending debit to failed, recording the reason.
func (s *PostgresStore) FailDebit(ctx context.Context, reference, reason string) error {
	cmd, err := s.db.Exec(ctx, `UPDATE transactions SET status = $1, description = $2
        WHERE reference_number = $3 AND kind = $4 AND status = $5`,
		string(StatusFailed), reason, reference, string(KindDebit), string(StatusPending))
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func validate(tx Transaction) error {
	if !tx.Kind.Valid() {
		return fmt.Errorf("invalid transaction kind %q", tx.Kind)
	}
	if !tx.Status.Valid() {
		return fmt.Errorf("invalid transaction status %q", tx.Status)
	}
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive")
	}
	if tx.Reference == "" {
		return fmt.Errorf("transaction reference is required")
	}
	return nil
}

func mapDuplicate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrDuplicateReference
	}
	return err
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (Transaction, error) {
	var (
		tx        Transaction
		id        uuid.UUID
		accountID uuid.UUID
		kind      string
		status    string
		createdAt time.Time
	)
	if err := row.Scan(&id, &accountID, &tx.Amount, &kind, &status, &tx.Reference, &tx.Description, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}
	tx.ID = id.String()
	tx.AccountID = accountID.String()
	tx.Kind = Kind(kind)
	tx.Status = Status(status)
	tx.CreatedAt = createdAt.UTC()
	return tx, nil
}

func collectTransactions(rows pgx.Rows) ([]Transaction, error) {
	var out []Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}
