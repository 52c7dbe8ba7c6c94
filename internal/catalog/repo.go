package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Row is one catalogued zettel.
type Row struct {
	ID       string    `json:"id"`
	Path     string    `json:"path"`
	Title    string    `json:"title"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

// Query filters and orders a listing.
type Query struct {
	// Text matches title or path, case-insensitively.
	Text string
	// Sort is one of created, modified, path, title. Defaults to created.
	Sort  string
	Limit int
}

var sortColumns = map[string]string{
	"":         "created, id",
	"created":  "created, id",
	"modified": "modified DESC, id",
	"path":     "path, id",
	"title":    "title COLLATE NOCASE, id",
}

// likeEscaper makes LIKE wildcards in user text match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ValidSort reports whether sort names a supported ordering.
func ValidSort(sort string) bool {
	_, ok := sortColumns[sort]
	return ok
}

// Replace swaps the whole catalog for rows within a transaction. Times are
// stored in UTC so that they sort as text.
func (db *DB) Replace(rows []Row) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM zettels`); err != nil {
		return fmt.Errorf("catalog: clear: %w", err)
	}
	if len(rows) > 0 {
		stmt, err := tx.Prepare(`INSERT INTO zettels (id, path, title, created, modified) VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("catalog: prepare insert: %w", err)
		}
		defer stmt.Close()
		for _, r := range rows {
			if _, err := stmt.Exec(r.ID, r.Path, r.Title, r.Created.UTC(), r.Modified.UTC()); err != nil {
				return fmt.Errorf("catalog: insert %s: %w", r.ID, err)
			}
		}
	}

	return tx.Commit()
}

// List returns the rows matching q and the total match count before Limit.
func (db *DB) List(q Query) ([]Row, int, error) {
	order, ok := sortColumns[q.Sort]
	if !ok {
		return nil, 0, fmt.Errorf("catalog: unsupported sort %q", q.Sort)
	}
	like := "%" + likeEscaper.Replace(q.Text) + "%"

	var total int
	if err := db.conn.QueryRow(`
		SELECT count(*) FROM zettels
		WHERE title LIKE ? ESCAPE '\' OR path LIKE ? ESCAPE '\'
	`, like, like).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("catalog: count: %w", err)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.conn.Query(`
		SELECT id, path, title, created, modified
		FROM zettels
		WHERE title LIKE ? ESCAPE '\' OR path LIKE ? ESCAPE '\'
		ORDER BY `+order+`
		LIMIT ?
	`, like, like, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Path, &r.Title, &r.Created, &r.Modified); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}
