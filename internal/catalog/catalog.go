// Package catalog keeps a SQLite mirror of the zettel index joined with each
// note's title, so listings can be filtered and sorted in SQL. The JSON index
// stays the source of truth; the catalog is rebuilt from it on demand.
package catalog

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS zettels (
	id       TEXT PRIMARY KEY,
	path     TEXT NOT NULL,
	title    TEXT NOT NULL DEFAULT '',
	created  DATETIME NOT NULL,
	modified DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_zettels_path ON zettels(path);
CREATE INDEX IF NOT EXISTS idx_zettels_title ON zettels(title);
`

// DB wraps a sql.DB with catalog operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("catalog: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("catalog: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
