// Package index provides the SQLite-backed corpus mirror used by the
// browse search surfaces (REST and MCP).
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS faqs (
	id        TEXT PRIMARY KEY,
	pos       INTEGER NOT NULL,
	question  TEXT NOT NULL,
	answer    TEXT NOT NULL,
	category  TEXT NOT NULL,
	reference TEXT NOT NULL DEFAULT '',
	links     TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_faqs_category ON faqs(category);

CREATE TABLE IF NOT EXISTS faq_keywords (
	faq_id  TEXT NOT NULL,
	keyword TEXT NOT NULL,
	UNIQUE(faq_id, keyword)
);

CREATE INDEX IF NOT EXISTS idx_faq_keywords_faq ON faq_keywords(faq_id);
`

// DB wraps a sql.DB with corpus index operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
// Use ":memory:" for an ephemeral index.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
