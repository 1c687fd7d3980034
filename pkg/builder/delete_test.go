package builder

import (
	"testing"

	"github.com/strataorm/strata/pkg/registry"
)

func TestDeleteQuery_ToSQL(t *testing.T) {
	if err := registry.Register(TestUser{}); err != nil {
		t.Fatalf("Failed to register model: %v", err)
	}

	db := New(nil)

	tests := []struct {
		name       string
		setupQuery func() *DeleteQuery[TestUser]
		wantSQL    string
		wantArgLen int
	}{
		{
			name: "delete with WHERE",
			setupQuery: func() *DeleteQuery[TestUser] {
				return Delete[TestUser](db).Where(Eq("id", "123"))
			},
			wantSQL:    "DELETE FROM test_user WHERE id = $1",
			wantArgLen: 1,
		},
		{
			name: "delete with multiple conditions",
			setupQuery: func() *DeleteQuery[TestUser] {
				return Delete[TestUser](db).
					Where(Eq("age", 25)).
					And(Like("email", "%@old-domain.com"))
			},
			wantSQL:    "DELETE FROM test_user WHERE age = $1 AND email LIKE $2",
			wantArgLen: 2,
		},
		{
			name: "delete all",
			setupQuery: func() *DeleteQuery[TestUser] {
				return Delete[TestUser](db)
			},
			wantSQL:    "DELETE FROM test_user",
			wantArgLen: 0,
		},
		{
			name: "delete with RETURNING",
			setupQuery: func() *DeleteQuery[TestUser] {
				return Delete[TestUser](db).Where(Eq("id", "123")).Returning("id")
			},
			wantSQL:    "DELETE FROM test_user WHERE id = $1 RETURNING id",
			wantArgLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.setupQuery().ToSQL()
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
