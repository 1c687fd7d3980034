// Package runtime provides the connection layer shared by the query builder
// and the model packages.
package runtime

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidModel is returned when a type cannot back a table: not a
	// struct, or a struct with no tagged columns.
	ErrInvalidModel = errors.New("invalid model")

	// ErrNoPrimaryKey is returned when a table has no primary key.
	ErrNoPrimaryKey = errors.New("no primary key defined")

	// ErrNoConnection is returned when no database connection is available.
	ErrNoConnection = errors.New("no database connection")

	// ErrTransactionClosed is returned when operating on a closed transaction.
	ErrTransactionClosed = errors.New("transaction already closed")
)

// QueryError represents a query execution error.
type QueryError struct {
	Query string
	Err   error
}

// Error implements the error interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query error: %v\nQuery: %s", e.Err, e.Query)
}

// Unwrap returns the underlying error.
func (e *QueryError) Unwrap() error {
	return e.Err
}
