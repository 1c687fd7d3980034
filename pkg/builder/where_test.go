package builder

import (
	"strings"
	"testing"
)

func TestWhereBuilder_Build(t *testing.T) {
	tests := []struct {
		name           string
		conditions     []Condition
		expectedSQL    string
		expectedArgLen int
		wantErr        bool
	}{
		{
			name:           "empty conditions",
			conditions:     []Condition{},
			expectedSQL:    "",
			expectedArgLen: 0,
		},
		{
			name: "single equality condition",
			conditions: []Condition{
				Eq("age", 25),
			},
			expectedSQL:    "WHERE age = $1",
			expectedArgLen: 1,
		},
		{
			name: "multiple AND conditions",
			conditions: []Condition{
				Eq("age", 25),
				Eq("name", "John"),
			},
			expectedSQL:    "WHERE age = $1 AND name = $2",
			expectedArgLen: 2,
		},
		{
			name: "OR condition",
			conditions: []Condition{
				Eq("age", 25),
				Or(Eq("age", 30)),
			},
			expectedSQL:    "WHERE age = $1 OR age = $2",
			expectedArgLen: 2,
		},
		{
			name: "IN condition",
			conditions: []Condition{
				In("status", "active", "pending", "completed"),
			},
			expectedSQL:    "WHERE status IN ($1, $2, $3)",
			expectedArgLen: 3,
		},
		{
			name: "NOT IN condition",
			conditions: []Condition{
				NotIn("status", "deleted", "archived"),
			},
			expectedSQL:    "WHERE status NOT IN ($1, $2)",
			expectedArgLen: 2,
		},
		{
			name: "comparison operators",
			conditions: []Condition{
				Gt("age", 18),
				Lte("age", 65),
			},
			expectedSQL:    "WHERE age > $1 AND age <= $2",
			expectedArgLen: 2,
		},
		{
			name: "LIKE and ILIKE",
			conditions: []Condition{
				Like("name", "Jo%"),
				Or(ILike("email", "%@EXAMPLE.COM")),
			},
			expectedSQL:    "WHERE name LIKE $1 OR email ILIKE $2",
			expectedArgLen: 2,
		},
		{
			name: "NULL checks",
			conditions: []Condition{
				IsNull("deleted_at"),
				IsNotNull("email"),
			},
			expectedSQL:    "WHERE deleted_at IS NULL AND email IS NOT NULL",
			expectedArgLen: 0,
		},
		{
			name: "BETWEEN condition",
			conditions: []Condition{
				Between("age", 18, 65),
			},
			expectedSQL:    "WHERE age BETWEEN $1 AND $2",
			expectedArgLen: 2,
		},
		{
			name: "negated condition",
			conditions: []Condition{
				Not(Eq("status", "banned")),
			},
			expectedSQL:    "WHERE NOT (status = $1)",
			expectedArgLen: 1,
		},
		{
			name: "grouped conditions",
			conditions: []Condition{
				Eq("active", true),
				Group(
					Eq("role", "admin"),
					Or(Eq("role", "owner")),
				),
			},
			expectedSQL:    "WHERE active = $1 AND (role = $2 OR role = $3)",
			expectedArgLen: 3,
		},
		{
			name: "raw fragment with placeholder rewriting",
			conditions: []Condition{
				Eq("active", true),
				Raw("char_length(slug) > ?", 10),
			},
			expectedSQL:    "WHERE active = $1 AND char_length(slug) > $2",
			expectedArgLen: 2,
		},
		{
			name: "raw fragment with multiple placeholders",
			conditions: []Condition{
				Raw("age BETWEEN ? AND ?", 18, 65),
			},
			expectedSQL:    "WHERE age BETWEEN $1 AND $2",
			expectedArgLen: 2,
		},
		{
			name: "raw fragment with mismatched args",
			conditions: []Condition{
				Raw("age > ?", 18, 65),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := NewWhereBuilder()
			wb.conditions = tt.conditions

			sql, args, err := wb.Build()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}
			if sql != tt.expectedSQL {
				t.Errorf("SQL mismatch:\ngot:  %s\nwant: %s", sql, tt.expectedSQL)
			}
			if len(args) != tt.expectedArgLen {
				t.Errorf("Expected %d args, got %d", tt.expectedArgLen, len(args))
			}
		})
	}
}

func TestWhereBuilder_ParamStart(t *testing.T) {
	wb := NewWhereBuilderWithStart(3)
	wb.Add(Eq("name", "John"))
	wb.Add(Eq("age", 25))

	sql, args, err := wb.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if !strings.Contains(sql, "$3") || !strings.Contains(sql, "$4") {
		t.Errorf("Expected parameters to start at $3, got: %s", sql)
	}
	if len(args) != 2 {
		t.Errorf("Expected 2 args, got %d", len(args))
	}
}
