package builder

import (
	"github.com/strataorm/strata/pkg/registry"
)

// Col returns the database column name for a given Go field name, using the
// registry as the single source of truth.
//
//	type Article struct {
//	    Title string `st:"title,varchar(500)"`
//	}
//
//	// Instead of hardcoded: Where(builder.Eq("title", value))
//	// Use: Where(builder.Eq(builder.Col[Article]("Title"), value))
func Col[T any](goFieldName string) string {
	var zero T

	table, err := registry.GetOrRegister(zero)
	if err != nil {
		// Not registrable; the field name will surface in the SQL error.
		return goFieldName
	}

	column := table.GetColumnByField(goFieldName)
	if column == nil {
		return goFieldName
	}
	return column.Name
}
