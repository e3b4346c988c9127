// internal/output/sql.go
package output

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// sqlDialect captures the per-engine differences the review schema needs.
type sqlDialect struct {
	name        string
	placeholder func(i int) string
	createTable string
	insertTail  string
}

// sqlWriter is the shared database/sql path behind the SQLite, PostgreSQL
// and MySQL writers. Rows conflict on the review ID; re-scraping a page
// upserts instead of duplicating.
type sqlWriter struct {
	db      *sql.DB
	table   string
	dialect sqlDialect
}

var sqlColumns = []string{
	"id", "job_id", "product", "platform", "reviewer_name", "rating",
	"text", "date", "verified_purchase", "helpful_votes", "sentiment",
	"categories", "keyword_relevance", "strategy", "source_url",
}

func newSQLWriter(db *sql.DB, table string, dialect sqlDialect) (*sqlWriter, error) {
	if table == "" {
		table = "reviews"
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect.name, err)
	}

	w := &sqlWriter{db: db, table: table, dialect: dialect}
	if _, err := db.Exec(fmt.Sprintf(dialect.createTable, table)); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table %s: %w", table, err)
	}
	return w, nil
}

// Name implements Writer.
func (w *sqlWriter) Name() string { return w.dialect.name }

// Write implements Writer. All rows of a document go in one transaction.
func (w *sqlWriter) Write(ctx context.Context, doc *Document) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, w.insertStatement())
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range doc.Reviews {
		_, err := stmt.ExecContext(ctx,
			r.ID,
			doc.JobID,
			doc.Product,
			r.Platform,
			r.ReviewerName,
			r.Rating,
			r.Text,
			r.Date,
			r.VerifiedPurchase,
			r.HelpfulVotes,
			r.Sentiment,
			strings.Join(r.Categories, "|"),
			r.KeywordRelevance,
			string(r.Strategy),
			r.SourceURL,
		)
		if err != nil {
			return fmt.Errorf("insert review %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// Close implements Writer.
func (w *sqlWriter) Close() error { return w.db.Close() }

func (w *sqlWriter) insertStatement() string {
	placeholders := make([]string, len(sqlColumns))
	for i := range sqlColumns {
		placeholders[i] = w.dialect.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)%s",
		w.table,
		strings.Join(sqlColumns, ", "),
		strings.Join(placeholders, ", "),
		w.dialect.insertTail,
	)
}

func questionPlaceholder(int) string { return "?" }

func dollarPlaceholder(i int) string { return fmt.Sprintf("$%d", i) }
