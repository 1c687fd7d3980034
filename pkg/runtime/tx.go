package runtime

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Tx wraps a pgx transaction. It implements Querier, so builders and models
// constructed over it run their statements inside the transaction.
type Tx struct {
	tx     pgx.Tx
	closed bool
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error {
	if t.closed {
		return ErrTransactionClosed
	}
	t.closed = true
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Rollback rolls back the transaction. Rolling back an already committed
// transaction is a no-op, so it is safe to defer.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.closed {
		return nil
	}
	t.closed = true
	if err := t.tx.Rollback(ctx); err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}
	return nil
}

// Savepoint creates a savepoint within the transaction.
func (t *Tx) Savepoint(ctx context.Context, name string) error {
	_, err := t.tx.Exec(ctx, fmt.Sprintf("SAVEPOINT %s", name))
	if err != nil {
		return fmt.Errorf("failed to create savepoint %s: %w", name, err)
	}
	return nil
}

// RollbackToSavepoint rolls back to a savepoint.
func (t *Tx) RollbackToSavepoint(ctx context.Context, name string) error {
	_, err := t.tx.Exec(ctx, fmt.Sprintf("ROLLBACK TO SAVEPOINT %s", name))
	if err != nil {
		return fmt.Errorf("failed to rollback to savepoint %s: %w", name, err)
	}
	return nil
}

// Exec executes a query within the transaction.
func (t *Tx) Exec(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	if t.closed {
		return 0, ErrTransactionClosed
	}
	result, err := t.tx.Exec(ctx, sql, args...)
	if err != nil {
		return 0, &QueryError{Query: sql, Err: err}
	}
	return result.RowsAffected(), nil
}

// Query executes a query that returns rows within the transaction.
func (t *Tx) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	if t.closed {
		return nil, ErrTransactionClosed
	}
	rows, err := t.tx.Query(ctx, sql, args...)
	if err != nil {
		return nil, &QueryError{Query: sql, Err: err}
	}
	return rows, nil
}

// QueryRow executes a query that returns at most one row within the transaction.
func (t *Tx) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return t.tx.QueryRow(ctx, sql, args...)
}
