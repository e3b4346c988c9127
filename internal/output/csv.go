// internal/output/csv.go
package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

var csvHeader = []string{
	"id", "job_id", "product", "platform", "reviewer_name", "rating",
	"text", "date", "verified_purchase", "helpful_votes", "sentiment",
	"categories", "keyword_relevance", "strategy", "source_url",
}

// CSVWriter appends review rows to a single CSV file, writing the header
// once on creation.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter opens (or creates) the CSV file for appending.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if path == "" {
		return nil, fmt.Errorf("CSV output path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	info, err := os.Stat(path)
	fresh := err != nil || info.Size() == 0

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	w := &CSVWriter{file: file, writer: csv.NewWriter(file)}
	if fresh {
		if err := w.writer.Write(csvHeader); err != nil {
			file.Close()
			return nil, fmt.Errorf("write CSV header: %w", err)
		}
		w.writer.Flush()
	}
	return w, nil
}

// Name implements Writer.
func (w *CSVWriter) Name() string { return "csv" }

// Write implements Writer.
func (w *CSVWriter) Write(ctx context.Context, doc *Document) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, r := range doc.Reviews {
		row := []string{
			r.ID,
			doc.JobID,
			doc.Product,
			r.Platform,
			r.ReviewerName,
			strconv.FormatFloat(r.Rating, 'f', 1, 64),
			r.Text,
			r.Date,
			strconv.FormatBool(r.VerifiedPurchase),
			strconv.Itoa(r.HelpfulVotes),
			r.Sentiment,
			strings.Join(r.Categories, "|"),
			strconv.FormatFloat(r.KeywordRelevance, 'f', 3, 64),
			string(r.Strategy),
			r.SourceURL,
		}
		if err := w.writer.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	w.writer.Flush()
	return w.writer.Error()
}

// Close implements Writer.
func (w *CSVWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
