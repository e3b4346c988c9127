// internal/output/mysql.go
package output

import (
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

const mysqlSchema = `CREATE TABLE IF NOT EXISTS %s (
	id                VARCHAR(32) PRIMARY KEY,
	job_id            VARCHAR(64) NOT NULL,
	product           TEXT,
	platform          VARCHAR(64),
	reviewer_name     TEXT,
	rating            DOUBLE,
	text              TEXT,
	date              VARCHAR(32),
	verified_purchase BOOLEAN,
	helpful_votes     INT,
	sentiment         VARCHAR(16),
	categories        TEXT,
	keyword_relevance DOUBLE,
	strategy          VARCHAR(16),
	source_url        TEXT
)`

// NewMySQLWriter connects with the given DSN and ensures the review table
// exists.
func NewMySQLWriter(dsn, table string) (Writer, error) {
	if dsn == "" {
		return nil, fmt.Errorf("MySQL DSN is required")
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open MySQL connection: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	return newSQLWriter(db, table, sqlDialect{
		name:        "mysql",
		placeholder: questionPlaceholder,
		createTable: mysqlSchema,
		insertTail:  " ON DUPLICATE KEY UPDATE id = id",
	})
}
