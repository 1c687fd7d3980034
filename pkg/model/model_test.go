package model

import (
	"context"
	"errors"
	"testing"

	"github.com/strataorm/strata/pkg/builder"
	"github.com/strataorm/strata/pkg/runtime"
)

type Post struct {
	ID       int64  `st:"id,primaryKey,bigserial"`
	Title    string `st:"title,varchar(500),notNull"`
	Body     string `st:"body,text"`
	Slug     string `st:"slug,varchar(500),unique"`
	GlobalID string // populated by the global-ID mixin, not a column
}

type noKeyRecord struct {
	Name string `st:"name,text"`
}

var postColumns = []string{"id", "title", "body", "slug"}

func postRow(id int64, title, body, slug string) []interface{} {
	return []interface{}{id, title, body, slug}
}

func newTestModel(t *testing.T, q *fakeQuerier) *Model[Post] {
	t.Helper()
	m, err := New[Post](builder.NewWithQuerier(q))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return m
}

func TestNew(t *testing.T) {
	m := newTestModel(t, &fakeQuerier{})

	if m.Table() != "post" {
		t.Errorf("expected table 'post', got '%s'", m.Table())
	}
	if m.PrimaryKey() != "id" {
		t.Errorf("expected primary key 'id', got '%s'", m.PrimaryKey())
	}
}

func TestNew_NoPrimaryKey(t *testing.T) {
	_, err := New[noKeyRecord](builder.NewWithQuerier(&fakeQuerier{}))
	if !errors.Is(err, runtime.ErrNoPrimaryKey) {
		t.Fatalf("expected ErrNoPrimaryKey, got %v", err)
	}
}

func TestModel_FindByID(t *testing.T) {
	q := &fakeQuerier{
		queryRows: []*fakeRows{
			newFakeRows(postColumns, postRow(7, "Hello", "world", "hello")),
		},
	}
	m := newTestModel(t, q)

	post, err := m.FindByID(context.Background(), int64(7))
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if post == nil {
		t.Fatal("expected a post, got nil")
	}
	if post.ID != 7 || post.Title != "Hello" {
		t.Errorf("unexpected post: %+v", post)
	}

	wantSQL := "SELECT * FROM post WHERE id = $1 LIMIT 1"
	if q.statements[0] != wantSQL {
		t.Errorf("SQL mismatch:\ngot:  %s\nwant: %s", q.statements[0], wantSQL)
	}
}

func TestModel_FindByID_NotFound(t *testing.T) {
	q := &fakeQuerier{
		queryRows: []*fakeRows{newFakeRows(postColumns)},
	}
	m := newTestModel(t, q)

	post, err := m.FindByID(context.Background(), int64(404))
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if post != nil {
		t.Errorf("expected nil for missing record, got %+v", post)
	}
}

func TestModel_FindOne(t *testing.T) {
	q := &fakeQuerier{
		queryRows: []*fakeRows{
			newFakeRows(postColumns, postRow(1, "Hello", "", "hello")),
		},
	}
	m := newTestModel(t, q)

	post, err := m.FindOne(context.Background(), "slug", "hello")
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if post == nil || post.Slug != "hello" {
		t.Errorf("unexpected post: %+v", post)
	}
}

func TestModel_All(t *testing.T) {
	q := &fakeQuerier{
		queryRows: []*fakeRows{
			newFakeRows(postColumns,
				postRow(1, "One", "", "one"),
				postRow(2, "Two", "", "two"),
			),
		},
	}
	m := newTestModel(t, q)

	posts, err := m.All(context.Background())
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
	if posts[1].Title != "Two" {
		t.Errorf("unexpected second post: %+v", posts[1])
	}
}

func TestModel_Count(t *testing.T) {
	q := &fakeQuerier{
		rowResults: []*fakeRow{{values: []interface{}{int64(5)}}},
	}
	m := newTestModel(t, q)

	count, err := m.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 5 {
		t.Errorf("expected count 5, got %d", count)
	}
}
