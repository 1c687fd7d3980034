package builder

import (
	"testing"

	"github.com/strataorm/strata/pkg/registry"
)

type TestUser struct {
	ID    string `st:"id,primaryKey,uuid"`
	Name  string `st:"name,varchar(255),notNull"`
	Email string `st:"email,varchar(320),unique,notNull"`
	Age   int    `st:"age,integer"`
}

func TestSelectQuery_ToSQL(t *testing.T) {
	if err := registry.Register(TestUser{}); err != nil {
		t.Fatalf("Failed to register model: %v", err)
	}

	db := New(nil) // Nil runtime DB for SQL generation tests

	tests := []struct {
		name       string
		setupQuery func() *SelectQuery[TestUser]
		wantSQL    string
		wantArgLen int
		wantErr    bool
	}{
		{
			name: "simple select all",
			setupQuery: func() *SelectQuery[TestUser] {
				return Select[TestUser](db)
			},
			wantSQL:    "SELECT * FROM test_user",
			wantArgLen: 0,
		},
		{
			name: "select specific columns",
			setupQuery: func() *SelectQuery[TestUser] {
				return Select[TestUser](db).Columns("id", "name")
			},
			wantSQL:    "SELECT id, name FROM test_user",
			wantArgLen: 0,
		},
		{
			name: "select with WHERE",
			setupQuery: func() *SelectQuery[TestUser] {
				return Select[TestUser](db).Where(Eq("age", 25))
			},
			wantSQL:    "SELECT * FROM test_user WHERE age = $1",
			wantArgLen: 1,
		},
		{
			name: "select with multiple WHERE",
			setupQuery: func() *SelectQuery[TestUser] {
				return Select[TestUser](db).
					Where(Eq("age", 25)).
					And(Eq("name", "John"))
			},
			wantSQL:    "SELECT * FROM test_user WHERE age = $1 AND name = $2",
			wantArgLen: 2,
		},
		{
			name: "select with OR",
			setupQuery: func() *SelectQuery[TestUser] {
				return Select[TestUser](db).
					Where(Eq("age", 25)).
					Or(Eq("age", 30))
			},
			wantSQL:    "SELECT * FROM test_user WHERE age = $1 OR age = $2",
			wantArgLen: 2,
		},
		{
			name: "select with ORDER BY",
			setupQuery: func() *SelectQuery[TestUser] {
				return Select[TestUser](db).OrderByAsc("name")
			},
			wantSQL:    "SELECT * FROM test_user ORDER BY name ASC",
			wantArgLen: 0,
		},
		{
			name: "select with multiple ORDER BY",
			setupQuery: func() *SelectQuery[TestUser] {
				return Select[TestUser](db).
					OrderByDesc("age").
					OrderByAsc("name")
			},
			wantSQL:    "SELECT * FROM test_user ORDER BY age DESC, name ASC",
			wantArgLen: 0,
		},
		{
			name: "select with LIMIT and OFFSET",
			setupQuery: func() *SelectQuery[TestUser] {
				return Select[TestUser](db).Limit(10).Offset(20)
			},
			wantSQL:    "SELECT * FROM test_user LIMIT 10 OFFSET 20",
			wantArgLen: 0,
		},
		{
			name: "select DISTINCT",
			setupQuery: func() *SelectQuery[TestUser] {
				return Select[TestUser](db).Columns("name").Distinct()
			},
			wantSQL:    "SELECT DISTINCT name FROM test_user",
			wantArgLen: 0,
		},
		{
			name: "select FOR UPDATE",
			setupQuery: func() *SelectQuery[TestUser] {
				return Select[TestUser](db).Where(Eq("id", "123")).ForUpdate()
			},
			wantSQL:    "SELECT * FROM test_user WHERE id = $1 FOR UPDATE",
			wantArgLen: 1,
		},
		{
			name: "everything combined",
			setupQuery: func() *SelectQuery[TestUser] {
				return Select[TestUser](db).
					Columns("id", "name", "email").
					Where(Gt("age", 18)).
					And(ILike("email", "%@example.com")).
					OrderByDesc("age").
					Limit(5)
			},
			wantSQL:    "SELECT id, name, email FROM test_user WHERE age > $1 AND email ILIKE $2 ORDER BY age DESC LIMIT 5",
			wantArgLen: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.setupQuery().ToSQL()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ToSQL() error: %v", err)
			}
			if sql != tt.wantSQL {
				t.Errorf("SQL mismatch:\ngot:  %s\nwant: %s", sql, tt.wantSQL)
			}
			if len(args) != tt.wantArgLen {
				t.Errorf("Expected %d args, got %d", tt.wantArgLen, len(args))
			}
		})
	}
}
