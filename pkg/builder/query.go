// Package builder provides a type-safe query builder for PostgreSQL.
package builder

import (
	"context"

	"github.com/strataorm/strata/pkg/schema"
)

// Query represents a generic database query.
type Query interface {
	// ToSQL generates the SQL query and parameter values.
	ToSQL() (sql string, args []interface{}, err error)
}

// Executable represents a query that can be executed.
type Executable interface {
	Query
	// Exec executes the query and returns the number of affected rows.
	Exec(ctx context.Context) (int64, error)
}

// SelectQuery represents a SELECT query with type safety.
type SelectQuery[T any] struct {
	db        *DB
	table     *schema.TableMetadata
	columns   []string
	where     []Condition
	orderBy   []OrderBy
	limit     *int
	offset    *int
	distinct  bool
	forUpdate bool
}

// InsertQuery represents an INSERT query.
type InsertQuery[T any] struct {
	db         *DB
	table      *schema.TableMetadata
	values     []T
	returning  []string
	onConflict *OnConflict
}

// UpdateQuery represents an UPDATE query.
type UpdateQuery[T any] struct {
	db        *DB
	table     *schema.TableMetadata
	sets      map[string]interface{}
	setOrder  []string
	where     []Condition
	returning []string
}

// DeleteQuery represents a DELETE query.
type DeleteQuery[T any] struct {
	db        *DB
	table     *schema.TableMetadata
	where     []Condition
	returning []string
}

// Condition represents a WHERE condition.
type Condition struct {
	Column   string
	Operator Operator
	Value    interface{}
	Logic    LogicOperator
	Not      bool
	Group    []Condition // For grouped conditions
	Fragment string      // Raw SQL fragment with ? placeholders (OpRaw)
	Args     []interface{}
}

// OrderBy represents an ORDER BY clause.
type OrderBy struct {
	Column    string
	Direction OrderDirection
	NullsPos  NullsPosition
}

// OnConflict represents an ON CONFLICT clause for upserts.
type OnConflict struct {
	Columns []string
	Action  ConflictAction
	Updates map[string]interface{}
}

// Operator represents a comparison operator.
type Operator string

const (
	// OpEqual represents the = operator.
	OpEqual Operator = "="
	// OpNotEqual represents the != operator.
	OpNotEqual Operator = "!="
	// OpGreaterThan represents the > operator.
	OpGreaterThan Operator = ">"
	// OpGreaterThanOrEqual represents the >= operator.
	OpGreaterThanOrEqual Operator = ">="
	// OpLessThan represents the < operator.
	OpLessThan Operator = "<"
	// OpLessThanOrEqual represents the <= operator.
	OpLessThanOrEqual Operator = "<="
	// OpIn represents the IN operator.
	OpIn Operator = "IN"
	// OpNotIn represents the NOT IN operator.
	OpNotIn Operator = "NOT IN"
	// OpLike represents the LIKE operator.
	OpLike Operator = "LIKE"
	// OpILike represents the ILIKE operator (case-insensitive).
	OpILike Operator = "ILIKE"
	// OpIsNull represents the IS NULL operator.
	OpIsNull Operator = "IS NULL"
	// OpIsNotNull represents the IS NOT NULL operator.
	OpIsNotNull Operator = "IS NOT NULL"
	// OpBetween represents the BETWEEN operator.
	OpBetween Operator = "BETWEEN"
	// OpContains represents the JSONB @> containment operator.
	OpContains Operator = "@>"
	// OpRaw marks a raw SQL fragment condition.
	OpRaw Operator = "RAW"
)

// LogicOperator represents a logical operator (AND/OR).
type LogicOperator string

const (
	// LogicAnd represents the AND operator.
	LogicAnd LogicOperator = "AND"
	// LogicOr represents the OR operator.
	LogicOr LogicOperator = "OR"
)

// OrderDirection represents the sort direction.
type OrderDirection string

const (
	// Asc represents ascending order.
	Asc OrderDirection = "ASC"
	// Desc represents descending order.
	Desc OrderDirection = "DESC"
)

// NullsPosition represents NULL positioning in ORDER BY.
type NullsPosition string

const (
	// NullsFirst positions NULL values first.
	NullsFirst NullsPosition = "NULLS FIRST"
	// NullsLast positions NULL values last.
	NullsLast NullsPosition = "NULLS LAST"
	// NullsDefault uses database default NULL positioning.
	NullsDefault NullsPosition = ""
)

// ConflictAction represents the action for ON CONFLICT.
type ConflictAction string

const (
	// DoNothing does nothing on conflict.
	DoNothing ConflictAction = "DO NOTHING"
	// DoUpdate updates on conflict.
	DoUpdate ConflictAction = "DO UPDATE SET"
)
