package model

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Test doubles for the runtime querier so mixin behavior can be exercised
// without a live database.

type fakeRows struct {
	fields []pgconn.FieldDescription
	rows   [][]interface{}
	idx    int
}

func newFakeRows(columns []string, rows ...[]interface{}) *fakeRows {
	fields := make([]pgconn.FieldDescription, len(columns))
	for i, name := range columns {
		fields[i] = pgconn.FieldDescription{Name: name}
	}
	return &fakeRows{fields: fields, rows: rows}
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return r.fields }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Values() ([]interface{}, error) {
	return r.rows[r.idx-1], nil
}

func (r *fakeRows) Scan(dest ...interface{}) error {
	row := r.rows[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan expects %d targets, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		if err := assignScanValue(d, row[i]); err != nil {
			return err
		}
	}
	return nil
}

type fakeRow struct {
	values []interface{}
	err    error
}

func (r *fakeRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan expects %d targets, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		if err := assignScanValue(d, r.values[i]); err != nil {
			return err
		}
	}
	return nil
}

func assignScanValue(dest, src interface{}) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return fmt.Errorf("scan target must be a non-nil pointer, got %T", dest)
	}
	dv = dv.Elem()

	if src == nil {
		dv.Set(reflect.Zero(dv.Type()))
		return nil
	}

	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(dv.Type()) {
		dv.Set(sv)
		return nil
	}
	// Targets like **int64 get a freshly allocated pointee.
	if dv.Kind() == reflect.Ptr && sv.Type().ConvertibleTo(dv.Type().Elem()) {
		p := reflect.New(dv.Type().Elem())
		p.Elem().Set(sv.Convert(dv.Type().Elem()))
		dv.Set(p)
		return nil
	}
	if sv.Type().ConvertibleTo(dv.Type()) {
		dv.Set(sv.Convert(dv.Type()))
		return nil
	}
	return fmt.Errorf("cannot scan %T into %T", src, dest)
}

// fakeQuerier queues canned responses and records every statement it sees.
type fakeQuerier struct {
	execResults []int64
	queryRows   []*fakeRows
	rowResults  []*fakeRow

	statements []string
	args       [][]interface{}
}

func (f *fakeQuerier) record(sql string, args []interface{}) {
	f.statements = append(f.statements, sql)
	f.args = append(f.args, args)
}

func (f *fakeQuerier) Exec(ctx context.Context, sql string, args ...interface{}) (int64, error) {
	f.record(sql, args)
	if len(f.execResults) == 0 {
		return 0, nil
	}
	n := f.execResults[0]
	f.execResults = f.execResults[1:]
	return n, nil
}

func (f *fakeQuerier) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	f.record(sql, args)
	if len(f.queryRows) == 0 {
		return newFakeRows(nil), nil
	}
	rows := f.queryRows[0]
	f.queryRows = f.queryRows[1:]
	return rows, nil
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	f.record(sql, args)
	if len(f.rowResults) == 0 {
		return &fakeRow{err: pgx.ErrNoRows}
	}
	row := f.rowResults[0]
	f.rowResults = f.rowResults[1:]
	return row
}
