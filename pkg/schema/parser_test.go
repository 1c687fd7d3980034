package schema

import (
	"errors"
	"reflect"
	"testing"

	"github.com/strataorm/strata/pkg/runtime"
)

type TestUser struct {
	ID          string  `st:"id,primaryKey,uuid,default(gen_random_uuid())"`
	Name        string  `st:"name,varchar(255),notNull"`
	Email       string  `st:"email,varchar(320),unique,notNull"`
	Age         int     `st:"age,smallint,notNull"`
	BankBalance float32 `st:"bank_balance,numeric(8,2),default(0),notNull"`
}

type TestProduct struct {
	ID    int64   `st:"id,primaryKey,bigserial"`
	Title string  `st:"title,text,notNull"`
	Price float64 `st:"price,numeric(10,2)"`
}

type untaggedStruct struct {
	Name string
}

func TestParser_Parse(t *testing.T) {
	parser := NewParser()

	t.Run("basic struct parsing", func(t *testing.T) {
		table, err := parser.Parse(reflect.TypeOf(TestUser{}))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}

		if table.Name != "test_user" {
			t.Errorf("expected table name 'test_user', got '%s'", table.Name)
		}

		if len(table.Columns) != 5 {
			t.Errorf("expected 5 columns, got %d", len(table.Columns))
		}

		if table.PrimaryKey == nil {
			t.Fatal("expected primary key to be set")
		}

		if len(table.PrimaryKey.Columns) != 1 || table.PrimaryKey.Columns[0] != "id" {
			t.Errorf("expected primary key column 'id', got %v", table.PrimaryKey.Columns)
		}
	})

	t.Run("column metadata", func(t *testing.T) {
		table, err := parser.Parse(reflect.TypeOf(TestUser{}))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}

		idCol := table.GetColumn("id")
		if idCol == nil {
			t.Fatal("id column not found")
		}
		if idCol.SQLType != "uuid" {
			t.Errorf("expected SQL type 'uuid', got '%s'", idCol.SQLType)
		}
		if !idCol.PrimaryKey {
			t.Error("expected id to be a primary key")
		}
		if !idCol.NotNull {
			t.Error("expected primary key to be not null")
		}

		emailCol := table.GetColumn("email")
		if emailCol == nil {
			t.Fatal("email column not found")
		}
		if emailCol.SQLType != "varchar(320)" {
			t.Errorf("expected SQL type 'varchar(320)', got '%s'", emailCol.SQLType)
		}
		if !emailCol.Unique {
			t.Error("expected email to be unique")
		}
		if emailCol.GoField != "Email" {
			t.Errorf("expected Go field 'Email', got '%s'", emailCol.GoField)
		}
	})

	t.Run("pointer type is unwrapped", func(t *testing.T) {
		table, err := parser.Parse(reflect.TypeOf(&TestProduct{}))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if table.Name != "test_product" {
			t.Errorf("expected table name 'test_product', got '%s'", table.Name)
		}
	})

	t.Run("struct without tagged columns", func(t *testing.T) {
		_, err := parser.Parse(reflect.TypeOf(untaggedStruct{}))
		if !errors.Is(err, runtime.ErrInvalidModel) {
			t.Errorf("expected ErrInvalidModel for struct without tagged columns, got %v", err)
		}
	})

	t.Run("non-struct type", func(t *testing.T) {
		_, err := parser.Parse(reflect.TypeOf(42))
		if !errors.Is(err, runtime.ErrInvalidModel) {
			t.Errorf("expected ErrInvalidModel for non-struct type, got %v", err)
		}
	})

	t.Run("parse results are cached", func(t *testing.T) {
		first, err := parser.Parse(reflect.TypeOf(TestUser{}))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		second, err := parser.Parse(reflect.TypeOf(TestUser{}))
		if err != nil {
			t.Fatalf("Parse failed: %v", err)
		}
		if first != second {
			t.Error("expected cached metadata on repeat parse")
		}
	})
}

type CustomNamed struct {
	ID int64 `st:"id,primaryKey,bigserial"`
}

func TestRegisterTableName(t *testing.T) {
	RegisterTableName("CustomNamed", "custom_table")

	table, err := NewParser().Parse(reflect.TypeOf(CustomNamed{}))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if table.Name != "custom_table" {
		t.Errorf("expected table name 'custom_table', got '%s'", table.Name)
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		wantName string
		wantOpts map[string]string
		wantErr  bool
	}{
		{
			name:     "name only",
			tag:      "title",
			wantName: "title",
			wantOpts: map[string]string{},
		},
		{
			name:     "options with values",
			tag:      "title,varchar(500),notNull",
			wantName: "title",
			wantOpts: map[string]string{"varchar": "500", "notNull": ""},
		},
		{
			name:     "nested parentheses survive splitting",
			tag:      "created_at,timestamptz,default(NOW())",
			wantName: "created_at",
			wantOpts: map[string]string{"timestamptz": "", "default": "NOW()"},
		},
		{
			name:     "multi-argument option",
			tag:      "price,numeric(10,2)",
			wantName: "price",
			wantOpts: map[string]string{"numeric": "10,2"},
		},
		{
			name:    "empty tag",
			tag:     "",
			wantErr: true,
		},
		{
			name:    "unbalanced option",
			tag:     "title,varchar(500",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseTag(tt.tag)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTag failed: %v", err)
			}
			if opts.Name != tt.wantName {
				t.Errorf("expected name '%s', got '%s'", tt.wantName, opts.Name)
			}
			for key, want := range tt.wantOpts {
				if !opts.Has(key) {
					t.Errorf("expected option '%s' to be present", key)
					continue
				}
				if got := opts.Get(key); got != want {
					t.Errorf("expected option %s='%s', got '%s'", key, want, got)
				}
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"User", "user"},
		{"BlogPost", "blog_post"},
		{"APIKey", "api_key"},
		{"HTTPServer", "http_server"},
		{"UserID", "user_id"},
	}

	for _, tt := range tests {
		if got := toSnakeCase(tt.in); got != tt.want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
