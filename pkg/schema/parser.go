package schema

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/strataorm/strata/pkg/runtime"
)

const (
	// StructTagKey is the key used in struct tags (e.g., `st:"..."`).
	StructTagKey = "st"
)

// Parser parses struct definitions to extract table metadata.
type Parser struct {
	cache map[reflect.Type]*TableMetadata
}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{
		cache: make(map[reflect.Type]*TableMetadata),
	}
}

// customTableNames maps struct names to table names registered at init time.
var customTableNames = make(map[string]string)

// RegisterTableName registers a custom table name for a struct type,
// overriding the snake_case default.
//
//	func init() {
//	    schema.RegisterTableName("Article", "articles")
//	}
func RegisterTableName(structName, tableName string) {
	customTableNames[structName] = tableName
}

// Parse extracts TableMetadata from a Go struct type.
func (p *Parser) Parse(modelType reflect.Type) (*TableMetadata, error) {
	for modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}
	if modelType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: must be a struct, got %s", runtime.ErrInvalidModel, modelType.Kind())
	}
	if cached, ok := p.cache[modelType]; ok {
		return cached, nil
	}

	table := &TableMetadata{
		Name:    extractTableName(modelType),
		GoType:  modelType,
		Columns: make([]ColumnMetadata, 0),
	}

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		if !field.IsExported() {
			continue
		}
		tagValue := field.Tag.Get(StructTagKey)
		if tagValue == "" || tagValue == "-" {
			continue
		}

		opts, err := parseTag(tagValue)
		if err != nil {
			return nil, fmt.Errorf("failed to parse tag for field %s: %w", field.Name, err)
		}

		column := ColumnMetadata{
			Name:       opts.Name,
			GoField:    field.Name,
			SQLType:    opts.SQLType(),
			PrimaryKey: opts.Has("primaryKey"),
			Unique:     opts.Has("unique"),
			NotNull:    opts.Has("notNull") || opts.Has("primaryKey"),
		}

		if column.PrimaryKey {
			if table.PrimaryKey == nil {
				table.PrimaryKey = &PrimaryKeyMetadata{
					Columns: []string{column.Name},
					Name:    table.Name + "_pkey",
				}
			} else {
				table.PrimaryKey.Columns = append(table.PrimaryKey.Columns, column.Name)
			}
		}

		table.Columns = append(table.Columns, column)
	}

	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("%w: struct %s has no tagged columns", runtime.ErrInvalidModel, modelType.Name())
	}

	p.cache[modelType] = table
	return table, nil
}

// extractTableName resolves the table name for a struct type: the registered
// custom name when one exists, the snake_case struct name otherwise.
func extractTableName(modelType reflect.Type) string {
	if tableName, ok := customTableNames[modelType.Name()]; ok {
		return tableName
	}
	return toSnakeCase(modelType.Name())
}

// TagOptions represents parsed tag options.
type TagOptions struct {
	Name    string            // Column name (first element)
	Options map[string]string // Other options
}

// parseTag parses a struct tag value into TagOptions.
// Format: "column_name,option1,option2(value),option3"
func parseTag(tag string) (*TagOptions, error) {
	parts := splitTag(tag)
	if len(parts) == 0 || parts[0] == "" {
		return nil, fmt.Errorf("empty tag value")
	}
	opts := &TagOptions{
		Name:    parts[0],
		Options: make(map[string]string),
	}
	for i := 1; i < len(parts); i++ {
		opt := parts[i]
		if idx := strings.Index(opt, "("); idx != -1 {
			if !strings.HasSuffix(opt, ")") {
				return nil, fmt.Errorf("invalid option format: %s", opt)
			}
			opts.Options[opt[:idx]] = opt[idx+1 : len(opt)-1]
		} else {
			opts.Options[opt] = ""
		}
	}
	return opts, nil
}

// Has checks if an option exists.
func (t *TagOptions) Has(key string) bool {
	_, ok := t.Options[key]
	return ok
}

// Get returns the value of an option.
func (t *TagOptions) Get(key string) string {
	return t.Options[key]
}

// SQLType returns the SQL type named in tag options, if any.
func (t *TagOptions) SQLType() string {
	pgTypes := []string{
		"uuid", "varchar", "text", "char",
		"smallint", "integer", "bigint", "serial", "bigserial",
		"numeric", "decimal", "real", "double precision",
		"boolean", "bool",
		"date", "time", "timestamp", "timestamptz", "interval",
		"json", "jsonb",
		"bytea",
	}
	for _, pgType := range pgTypes {
		if t.Has(pgType) {
			if value := t.Get(pgType); value != "" {
				return fmt.Sprintf("%s(%s)", pgType, value)
			}
			return pgType
		}
	}
	return ""
}

// splitTag splits a tag value by commas, respecting nested parentheses so
// options like default(NOW()) survive intact.
func splitTag(tag string) []string {
	var parts []string
	var current strings.Builder
	depth := 0
	for _, ch := range tag {
		switch ch {
		case '(':
			depth++
			current.WriteRune(ch)
		case ')':
			depth--
			current.WriteRune(ch)
		case ',':
			if depth == 0 {
				parts = append(parts, current.String())
				current.Reset()
			} else {
				current.WriteRune(ch)
			}
		default:
			current.WriteRune(ch)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// toSnakeCase converts a CamelCase name to snake_case.
func toSnakeCase(name string) string {
	var out strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && !unicode.IsUpper(runes[i+1]))) {
				out.WriteRune('_')
			}
			out.WriteRune(unicode.ToLower(r))
		} else {
			out.WriteRune(r)
		}
	}
	return out.String()
}
