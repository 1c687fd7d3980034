package builder

import (
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/strataorm/strata/pkg/schema"
)

// scanIntoStruct scans the current row into a struct, matching returned
// columns to struct fields through the table metadata. Columns without a
// matching field are discarded.
func scanIntoStruct(rows pgx.Rows, dest interface{}, table *schema.TableMetadata) error {
	destValue := reflect.ValueOf(dest)
	if destValue.Kind() != reflect.Ptr || destValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("dest must be a pointer to struct")
	}
	destValue = destValue.Elem()

	fieldDescriptions := rows.FieldDescriptions()
	scanTargets := make([]interface{}, len(fieldDescriptions))

	for i, fd := range fieldDescriptions {
		col := table.GetColumn(fd.Name)
		if col == nil {
			var discard interface{}
			scanTargets[i] = &discard
			continue
		}

		field := destValue.FieldByName(col.GoField)
		if !field.IsValid() || !field.CanAddr() {
			var discard interface{}
			scanTargets[i] = &discard
			continue
		}
		scanTargets[i] = field.Addr().Interface()
	}

	return rows.Scan(scanTargets...)
}

// structToValues extracts column names and values from a struct in column
// declaration order. When skipZeroPrimaryKey is set, zero-valued primary
// key columns are omitted so database-side defaults and generated IDs apply.
func structToValues(value interface{}, table *schema.TableMetadata, skipZeroPrimaryKey bool) ([]string, []interface{}, error) {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return nil, nil, fmt.Errorf("value is nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, nil, fmt.Errorf("value must be a struct, got %s", v.Kind())
	}

	var columns []string
	var values []interface{}

	for _, col := range table.Columns {
		field := v.FieldByName(col.GoField)
		if !field.IsValid() {
			continue
		}
		if skipZeroPrimaryKey && col.PrimaryKey && field.IsZero() {
			continue
		}
		columns = append(columns, col.Name)
		values = append(values, field.Interface())
	}

	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("no insertable columns in %s", v.Type().Name())
	}
	return columns, values, nil
}
