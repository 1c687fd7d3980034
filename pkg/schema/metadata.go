// Package schema extracts table metadata from struct tags.
package schema

import "reflect"

// TableMetadata describes a database table derived from a Go struct.
type TableMetadata struct {
	Name       string
	GoType     reflect.Type
	Columns    []ColumnMetadata
	PrimaryKey *PrimaryKeyMetadata
}

// ColumnMetadata describes a single table column.
type ColumnMetadata struct {
	Name       string
	GoField    string
	SQLType    string
	PrimaryKey bool
	Unique     bool
	NotNull    bool
}

// PrimaryKeyMetadata describes the table's primary key.
type PrimaryKeyMetadata struct {
	Name    string
	Columns []string
}

// GetColumn returns the column with the given database name, or nil.
func (t *TableMetadata) GetColumn(name string) *ColumnMetadata {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// GetColumnByField returns the column for the given Go field name, or nil.
func (t *TableMetadata) GetColumnByField(goField string) *ColumnMetadata {
	for i := range t.Columns {
		if t.Columns[i].GoField == goField {
			return &t.Columns[i]
		}
	}
	return nil
}

// PrimaryKeyColumn returns the first primary key column name, or empty
// string when the table has no primary key. Composite keys return the
// leading column.
func (t *TableMetadata) PrimaryKeyColumn() string {
	if t.PrimaryKey == nil || len(t.PrimaryKey.Columns) == 0 {
		return ""
	}
	return t.PrimaryKey.Columns[0]
}

// ColumnNames returns the database names of all columns in declaration order.
func (t *TableMetadata) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}
