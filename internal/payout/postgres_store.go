package payout

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists payout transactions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgreSQL-backed transaction store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the payout_transactions table if it doesn't exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS payout_transactions (
			id                VARCHAR(80) PRIMARY KEY,
			method            VARCHAR(32) NOT NULL,
			amount            NUMERIC(20, 2) NOT NULL CHECK (amount > 0),
			currency          VARCHAR(3) NOT NULL,
			status            VARCHAR(16) NOT NULL DEFAULT 'pending',
			initiated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at      TIMESTAMPTZ,
			confirmation_code TEXT,
			recipient_address TEXT,
			estimated_arrival TIMESTAMPTZ
		);

		CREATE INDEX IF NOT EXISTS idx_payout_transactions_status
			ON payout_transactions (status);
	`)
	return err
}

func (s *PostgresStore) Create(ctx context.Context, tx *Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payout_transactions
			(id, method, amount, currency, status, initiated_at, completed_at, confirmation_code, recipient_address, estimated_arrival)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		tx.ID,
		string(tx.Method),
		tx.Amount,
		tx.Currency,
		string(tx.Status),
		tx.InitiatedAt,
		tx.CompletedAt,
		nullIfEmpty(tx.ConfirmationCode),
		nullIfEmpty(tx.RecipientAddress),
		tx.EstimatedArrival,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, method, amount, currency, status, initiated_at, completed_at, confirmation_code, recipient_address, estimated_arrival
		FROM payout_transactions
		WHERE id = $1
	`, id)

	var tx Transaction
	var confirmation, recipient sql.NullString
	err := row.Scan(
		&tx.ID,
		&tx.Method,
		&tx.Amount,
		&tx.Currency,
		&tx.Status,
		&tx.InitiatedAt,
		&tx.CompletedAt,
		&confirmation,
		&recipient,
		&tx.EstimatedArrival,
	)
	if err == sql.ErrNoRows {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	tx.ConfirmationCode = confirmation.String
	tx.RecipientAddress = recipient.String
	return &tx, nil
}

func (s *PostgresStore) Update(ctx context.Context, tx *Transaction) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE payout_transactions
		SET status = $2, completed_at = $3, confirmation_code = $4
		WHERE id = $1
	`,
		tx.ID,
		string(tx.Status),
		tx.CompletedAt,
		nullIfEmpty(tx.ConfirmationCode),
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, method, amount, currency, status, initiated_at, completed_at, confirmation_code, recipient_address, estimated_arrival
		FROM payout_transactions
		ORDER BY initiated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*Transaction
	for rows.Next() {
		var tx Transaction
		var confirmation, recipient sql.NullString
		if err := rows.Scan(
			&tx.ID,
			&tx.Method,
			&tx.Amount,
			&tx.Currency,
			&tx.Status,
			&tx.InitiatedAt,
			&tx.CompletedAt,
			&confirmation,
			&recipient,
			&tx.EstimatedArrival,
		); err != nil {
			continue
		}
		tx.ConfirmationCode = confirmation.String
		tx.RecipientAddress = recipient.String
		result = append(result, &tx)
	}
	return result, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
