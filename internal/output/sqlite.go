// internal/output/sqlite.go
package output

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS %s (
	id                TEXT PRIMARY KEY,
	job_id            TEXT NOT NULL,
	product           TEXT,
	platform          TEXT,
	reviewer_name     TEXT,
	rating            REAL,
	text              TEXT,
	date              TEXT,
	verified_purchase INTEGER,
	helpful_votes     INTEGER,
	sentiment         TEXT,
	categories        TEXT,
	keyword_relevance REAL,
	strategy          TEXT,
	source_url        TEXT
)`

// NewSQLiteWriter opens or creates the database file and ensures the
// review table exists.
func NewSQLiteWriter(path, table string) (Writer, error) {
	if path == "" {
		return nil, fmt.Errorf("SQLite database path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open SQLite database: %w", err)
	}
	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	return newSQLWriter(db, table, sqlDialect{
		name:        "sqlite",
		placeholder: questionPlaceholder,
		createTable: sqliteSchema,
		insertTail:  " ON CONFLICT(id) DO NOTHING",
	})
}
