// Package model provides a table-scoped base model and composable mixins
// (slug derivation, global IDs, ID generation) layered on the query builder.
package model

import (
	"context"

	"github.com/strataorm/strata/pkg/builder"
	"github.com/strataorm/strata/pkg/registry"
	"github.com/strataorm/strata/pkg/runtime"
	"github.com/strataorm/strata/pkg/schema"
)

// Model is a base CRUD model bound to a single table. It carries the table
// metadata, the primary key column and a query builder handle; all
// data-mutating operations delegate to the builder without caching.
type Model[T any] struct {
	db    *builder.DB
	table *schema.TableMetadata
	pk    string
}

// New creates a base model for T. The table name and primary key come from
// T's struct tags via the registry.
func New[T any](db *builder.DB) (*Model[T], error) {
	var zero T

	table, err := registry.GetOrRegister(zero)
	if err != nil {
		return nil, err
	}

	pk := table.PrimaryKeyColumn()
	if pk == "" {
		return nil, runtime.ErrNoPrimaryKey
	}

	return &Model[T]{db: db, table: table, pk: pk}, nil
}

// Table returns the table name the model is bound to.
func (m *Model[T]) Table() string {
	return m.table.Name
}

// PrimaryKey returns the primary key column name.
func (m *Model[T]) PrimaryKey() string {
	return m.pk
}

// DB returns the query builder handle.
func (m *Model[T]) DB() *builder.DB {
	return m.db
}

// Metadata returns the table metadata.
func (m *Model[T]) Metadata() *schema.TableMetadata {
	return m.table
}

// FindByID returns the record with the given primary key, or nil when no
// record matches. Not-found is not an error.
func (m *Model[T]) FindByID(ctx context.Context, id interface{}) (*T, error) {
	return builder.Select[T](m.db).
		Where(builder.Eq(m.pk, id)).
		First(ctx)
}

// FindOne returns the first record where column equals value, or nil when
// no record matches.
func (m *Model[T]) FindOne(ctx context.Context, column string, value interface{}) (*T, error) {
	return builder.Select[T](m.db).
		Where(builder.Eq(column, value)).
		First(ctx)
}

// All returns every record in the table.
func (m *Model[T]) All(ctx context.Context) ([]T, error) {
	return builder.Select[T](m.db).All(ctx)
}

// Count returns the number of records in the table.
func (m *Model[T]) Count(ctx context.Context) (int64, error) {
	return builder.Select[T](m.db).Count(ctx)
}

// Select creates a SELECT query scoped to the model's table.
func (m *Model[T]) Select() *builder.SelectQuery[T] {
	return builder.Select[T](m.db)
}

// Insert creates an INSERT query scoped to the model's table.
func (m *Model[T]) Insert() *builder.InsertQuery[T] {
	return builder.Insert[T](m.db)
}

// Update creates an UPDATE query scoped to the model's table.
func (m *Model[T]) Update() *builder.UpdateQuery[T] {
	return builder.Update[T](m.db)
}

// Delete creates a DELETE query scoped to the model's table.
func (m *Model[T]) Delete() *builder.DeleteQuery[T] {
	return builder.Delete[T](m.db)
}

// Transaction runs fn with a transaction-scoped variant of this model.
// The transaction commits when fn returns nil; an error from fn rolls the
// transaction back and propagates to the caller.
func (m *Model[T]) Transaction(ctx context.Context, fn func(tx *Model[T]) error) error {
	return m.db.WithinTransaction(ctx, func(txdb *builder.DB) error {
		return fn(m.withDB(txdb))
	})
}

// withDB returns a copy of the model bound to a different builder handle.
func (m *Model[T]) withDB(db *builder.DB) *Model[T] {
	return &Model[T]{db: db, table: m.table, pk: m.pk}
}

// insertReturning inserts a single record and returns the stored row.
func (m *Model[T]) insertReturning(ctx context.Context, rec T) (*T, error) {
	rows, err := builder.Insert[T](m.db).Values(rec).ExecReturning(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}
