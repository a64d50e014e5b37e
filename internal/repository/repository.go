// Package repository — PostgreSQL data access layer.
// All queries are plain SQL through pgx, no ORM.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository layer errors.
var (
	// ErrNotFound — record not found.
	ErrNotFound = errors.New("record not found")
	// ErrConflict — uniqueness conflict (duplicate resource).
	ErrConflict = errors.New("conflict — record already exists")
)

// DBTX is the interface for executing SQL queries.
// Both *pgxpool.Pool and pgx.Tx implement it, so repositories work
// inside and outside of transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxRunner runs operations inside a transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner creates a TxRunner for transaction management.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunInTx executes fn inside a transaction. The transaction is rolled
// back when fn fails and committed otherwise.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// isUniqueViolation reports whether err is a PostgreSQL unique violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
