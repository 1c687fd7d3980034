package model

import (
	"fmt"
	"reflect"
)

// Reflection helpers used by the mixins to read and write record fields
// addressed by database column name.

// columnField resolves the struct field backing a column on rec, which must
// be addressable through the returned value to be settable.
func (m *Model[T]) columnField(rec reflect.Value, column string) (reflect.Value, bool) {
	col := m.table.GetColumn(column)
	if col == nil {
		return reflect.Value{}, false
	}
	field := rec.FieldByName(col.GoField)
	if !field.IsValid() {
		return reflect.Value{}, false
	}
	return field, true
}

// columnString returns the string rendering of a column's value on rec.
// Zero values render as the empty string, so absent sources are skipped.
func (m *Model[T]) columnString(rec T, column string) string {
	field, ok := m.columnField(reflect.ValueOf(rec), column)
	if !ok || field.IsZero() {
		return ""
	}
	if field.Kind() == reflect.String {
		return field.String()
	}
	return fmt.Sprint(field.Interface())
}

// columnIsZero reports whether a column's backing field holds its zero value.
func (m *Model[T]) columnIsZero(rec T, column string) bool {
	field, ok := m.columnField(reflect.ValueOf(rec), column)
	if !ok {
		return true
	}
	return field.IsZero()
}

// setColumn writes value into the struct field backing column on rec.
// Numeric values are converted to the field's type; any value can be
// written into a string field via its default formatting.
func (m *Model[T]) setColumn(rec *T, column string, value interface{}) error {
	field, ok := m.columnField(reflect.ValueOf(rec).Elem(), column)
	if !ok {
		return fmt.Errorf("column %s not found on %s", column, m.table.Name)
	}
	if !field.CanSet() {
		return fmt.Errorf("column %s is not settable on %s", column, m.table.Name)
	}
	return setReflectValue(field, value)
}

// setField writes value into a struct field addressed by its Go name.
// Used for fields that are not database columns, like an attached global ID.
func setField(rec interface{}, goField string, value interface{}) error {
	v := reflect.ValueOf(rec)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("record must be a pointer to struct")
	}
	field := v.Elem().FieldByName(goField)
	if !field.IsValid() {
		return fmt.Errorf("field %s not found on %s", goField, v.Elem().Type().Name())
	}
	if !field.CanSet() {
		return fmt.Errorf("field %s is not settable", goField)
	}
	return setReflectValue(field, value)
}

func setReflectValue(field reflect.Value, value interface{}) error {
	val := reflect.ValueOf(value)

	switch {
	case val.Type().AssignableTo(field.Type()):
		field.Set(val)
	case field.Kind() == reflect.String:
		field.SetString(fmt.Sprint(value))
	case val.Type().ConvertibleTo(field.Type()) && isNumeric(val.Kind()) && isNumeric(field.Kind()):
		field.Set(val.Convert(field.Type()))
	default:
		return fmt.Errorf("cannot assign %s to field of type %s", val.Type(), field.Type())
	}
	return nil
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
