package builder

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/strataorm/strata/pkg/runtime"
)

// WithinTransaction runs fn inside a transaction. The callback receives a
// transaction-scoped DB; any query built on it executes within the
// transaction. The transaction commits when fn returns nil and rolls back
// when fn returns an error; the error is propagated unchanged.
//
// Calling WithinTransaction on a DB that is already transaction-scoped joins
// the ambient transaction instead of opening a nested one.
func (d *DB) WithinTransaction(ctx context.Context, fn func(txdb *DB) error) error {
	if d.InTransaction() {
		return fn(d)
	}
	if d.root == nil {
		return runtime.ErrNoConnection
	}

	tx, err := d.root.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(NewWithQuerier(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit(ctx)
}

// WithinTransactionTx is like WithinTransaction with explicit pgx
// transaction options (isolation level, access mode).
func (d *DB) WithinTransactionTx(ctx context.Context, txOptions pgx.TxOptions, fn func(txdb *DB) error) error {
	if d.InTransaction() {
		return fn(d)
	}
	if d.root == nil {
		return runtime.ErrNoConnection
	}

	tx, err := d.root.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	if err := fn(NewWithQuerier(tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit(ctx)
}
