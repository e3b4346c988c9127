// internal/output/postgresql.go
package output

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS %s (
	id                TEXT PRIMARY KEY,
	job_id            TEXT NOT NULL,
	product           TEXT,
	platform          TEXT,
	reviewer_name     TEXT,
	rating            DOUBLE PRECISION,
	text              TEXT,
	date              TEXT,
	verified_purchase BOOLEAN,
	helpful_votes     INTEGER,
	sentiment         TEXT,
	categories        TEXT,
	keyword_relevance DOUBLE PRECISION,
	strategy          TEXT,
	source_url        TEXT
)`

// NewPostgreSQLWriter connects with the given DSN and ensures the review
// table exists.
func NewPostgreSQLWriter(dsn, table string) (Writer, error) {
	if dsn == "" {
		return nil, fmt.Errorf("PostgreSQL DSN is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open PostgreSQL connection: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return newSQLWriter(db, table, sqlDialect{
		name:        "postgresql",
		placeholder: dollarPlaceholder,
		createTable: postgresSchema,
		insertTail:  " ON CONFLICT (id) DO NOTHING",
	})
}
