package builder

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/strataorm/strata/pkg/registry"
	"github.com/strataorm/strata/pkg/runtime"
)

// DB wraps a runtime querier and provides query builder entry points. The
// querier may be a pooled connection or a transaction; queries built on a
// transaction-scoped DB run inside that transaction.
type DB struct {
	q    runtime.Querier
	root *runtime.DB // nil when transaction-scoped
}

// New creates a new query builder DB from a runtime DB.
func New(db *runtime.DB) *DB {
	return &DB{q: db, root: db}
}

// NewWithQuerier creates a query builder DB over an arbitrary querier.
// Used for transaction-scoped builders and for tests.
func NewWithQuerier(q runtime.Querier) *DB {
	return &DB{q: q}
}

// Querier returns the underlying querier.
func (d *DB) Querier() runtime.Querier {
	return d.q
}

// Runtime returns the underlying runtime DB, or nil when the builder is
// transaction-scoped.
func (d *DB) Runtime() *runtime.DB {
	return d.root
}

// InTransaction reports whether this DB executes inside a transaction.
func (d *DB) InTransaction() bool {
	_, ok := d.q.(*runtime.Tx)
	return ok
}

// Exec executes raw SQL and returns the number of affected rows.
func (d *DB) Exec(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	return d.q.Exec(ctx, sql, args...)
}

// Query executes raw SQL that returns rows.
func (d *DB) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	return d.q.Query(ctx, sql, args...)
}

// QueryRow executes raw SQL that returns at most one row.
func (d *DB) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return d.q.QueryRow(ctx, sql, args...)
}

// Select creates a new type-safe SELECT query.
// Usage: builder.Select[Article](db).Where(...).All(ctx)
func Select[T any](d *DB) *SelectQuery[T] {
	var model T

	table, err := registry.GetOrRegister(model)
	if err != nil {
		return &SelectQuery[T]{db: d, table: nil}
	}

	return &SelectQuery[T]{
		db:      d,
		table:   table,
		columns: []string{"*"},
		where:   make([]Condition, 0),
		orderBy: make([]OrderBy, 0),
	}
}

// Insert creates a new type-safe INSERT query.
// Usage: builder.Insert[Article](db).Values(a).Exec(ctx)
func Insert[T any](d *DB) *InsertQuery[T] {
	var model T

	table, err := registry.GetOrRegister(model)
	if err != nil {
		return &InsertQuery[T]{db: d, table: nil}
	}

	return &InsertQuery[T]{
		db:        d,
		table:     table,
		values:    make([]T, 0),
		returning: make([]string, 0),
	}
}

// Update creates a new type-safe UPDATE query.
// Usage: builder.Update[Article](db).Set("title", "New").Where(...).Exec(ctx)
func Update[T any](d *DB) *UpdateQuery[T] {
	var model T

	table, err := registry.GetOrRegister(model)
	if err != nil {
		return &UpdateQuery[T]{db: d, table: nil}
	}

	return &UpdateQuery[T]{
		db:        d,
		table:     table,
		sets:      make(map[string]interface{}),
		where:     make([]Condition, 0),
		returning: make([]string, 0),
	}
}

// Delete creates a new type-safe DELETE query.
// Usage: builder.Delete[Article](db).Where(...).Exec(ctx)
func Delete[T any](d *DB) *DeleteQuery[T] {
	var model T

	table, err := registry.GetOrRegister(model)
	if err != nil {
		return &DeleteQuery[T]{db: d, table: nil}
	}

	return &DeleteQuery[T]{
		db:        d,
		table:     table,
		where:     make([]Condition, 0),
		returning: make([]string, 0),
	}
}
