package builder

import (
	"fmt"
	"strings"
)

// JSONB helpers for PostgreSQL jsonb columns.

// JSONContains checks if a jsonb column contains the given value.
func JSONContains(column string, value interface{}) Condition {
	return Condition{
		Column:   column,
		Operator: OpContains,
		Value:    value,
		Logic:    LogicAnd,
	}
}

// JSONHasKey checks if a jsonb column contains a specific top-level key.
// Uses jsonb_exists instead of the ? operator, which collides with
// placeholder syntax.
func JSONHasKey(column string, key string) Condition {
	return Raw("jsonb_exists("+column+", ?)", key)
}

// JSONPath builds a jsonb path expression.
// Usage: JSONPath("data", "user", "name") -> data->'user'->'name'
func JSONPath(column string, path ...string) string {
	result := column
	for _, p := range path {
		result += fmt.Sprintf("->'%s'", quoteLiteral(p))
	}
	return result
}

// JSONPathText builds a jsonb path expression whose last step extracts text.
// Usage: JSONPathText("data", "user", "name") -> data->'user'->>'name'
func JSONPathText(column string, path ...string) string {
	if len(path) == 0 {
		return column
	}
	result := column
	for i, p := range path {
		if i == len(path)-1 {
			result += fmt.Sprintf("->>'%s'", quoteLiteral(p))
		} else {
			result += fmt.Sprintf("->'%s'", quoteLiteral(p))
		}
	}
	return result
}

// JSONPathEquals builds a condition matching a text value at a jsonb path.
// Usage: JSONPathEquals("data", []string{"user", "name"}, "alice")
func JSONPathEquals(column string, path []string, value string) Condition {
	return Condition{
		Column:   JSONPathText(column, path...),
		Operator: OpEqual,
		Value:    value,
		Logic:    LogicAnd,
	}
}

// quoteLiteral escapes single quotes for embedding in a path expression.
func quoteLiteral(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
