package catalog

import (
	"os"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "zk-catalog-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var t0 = time.Date(2022, 1, 2, 10, 0, 0, 0, time.UTC)

func seed(t *testing.T, db *DB) {
	t.Helper()
	rows := []Row{
		{ID: "b", Path: "2022-01-03-beta.md", Title: "beta", Created: t0.Add(time.Hour), Modified: t0.Add(time.Hour)},
		{ID: "a", Path: "2022-01-02-Alpha.md", Title: "Alpha", Created: t0, Modified: t0.Add(3 * time.Hour)},
		{ID: "c", Path: "2022-01-04-gamma.md", Title: "gamma ray", Created: t0.Add(2 * time.Hour), Modified: t0.Add(2 * time.Hour)},
	}
	if err := db.Replace(rows); err != nil {
		t.Fatalf("Replace: %v", err)
	}
}

func ids(rows []Row) string {
	var s string
	for _, r := range rows {
		s += r.ID
	}
	return s
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM zettels`).Scan(&count); err != nil {
		t.Fatalf("zettels table missing: %v", err)
	}
}

func TestListSorts(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	cases := map[string]string{
		"":         "abc",
		"created":  "abc",
		"modified": "acb",
		"path":     "abc",
		"title":    "abc",
	}
	for sort, want := range cases {
		rows, total, err := db.List(Query{Sort: sort})
		if err != nil {
			t.Fatalf("List(%q): %v", sort, err)
		}
		if total != 3 {
			t.Errorf("List(%q) total = %d, want 3", sort, total)
		}
		if got := ids(rows); got != want {
			t.Errorf("List(%q) = %s, want %s", sort, got, want)
		}
	}
}

func TestListFilterAndLimit(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	rows, total, err := db.List(Query{Text: "GAMMA"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || ids(rows) != "c" {
		t.Errorf("filter = %s (total %d), want c", ids(rows), total)
	}

	rows, total, err = db.List(Query{Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(rows) != 2 {
		t.Errorf("limit: len = %d, total = %d", len(rows), total)
	}
}

func TestListFilterIsLiteral(t *testing.T) {
	db := testDB(t)
	rows := []Row{
		{ID: "p", Path: "p.md", Title: "50% done", Created: t0, Modified: t0},
		{ID: "q", Path: "q.md", Title: "500 items", Created: t0.Add(time.Hour), Modified: t0.Add(time.Hour)},
		{ID: "u", Path: "snake_case.md", Title: "u", Created: t0.Add(2 * time.Hour), Modified: t0.Add(2 * time.Hour)},
		{ID: "v", Path: "snakeXcase.md", Title: "v", Created: t0.Add(3 * time.Hour), Modified: t0.Add(3 * time.Hour)},
		{ID: "w", Path: `back\slash.md`, Title: "w", Created: t0.Add(4 * time.Hour), Modified: t0.Add(4 * time.Hour)},
	}
	if err := db.Replace(rows); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	cases := map[string]string{
		"50%":        "p",
		"snake_case": "u",
		`back\s`:     "w",
	}
	for text, want := range cases {
		got, total, err := db.List(Query{Text: text})
		if err != nil {
			t.Fatalf("List(%q): %v", text, err)
		}
		if ids(got) != want || total != len(want) {
			t.Errorf("List(%q) = %s (total %d), want %s", text, ids(got), total, want)
		}
	}
}

func TestListUnknownSort(t *testing.T) {
	db := testDB(t)
	if _, _, err := db.List(Query{Sort: "size"}); err == nil {
		t.Error("expected error for unknown sort")
	}
	if ValidSort("size") {
		t.Error("ValidSort(size) = true")
	}
}

func TestReplaceDropsOldRows(t *testing.T) {
	db := testDB(t)
	seed(t, db)
	if err := db.Replace([]Row{{ID: "z", Path: "z.md", Created: t0, Modified: t0}}); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	rows, _, err := db.List(Query{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if ids(rows) != "z" {
		t.Errorf("rows = %s, want z", ids(rows))
	}
	if !rows[0].Created.Equal(t0) {
		t.Errorf("created = %v, want %v", rows[0].Created, t0)
	}
}
