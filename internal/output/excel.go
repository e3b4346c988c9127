// internal/output/excel.go
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// ExcelWriter writes one workbook per job: a Reviews sheet with the full
// record rows and an Insights sheet with the aggregates.
type ExcelWriter struct {
	basePath string
	mu       sync.Mutex
}

// NewExcelWriter creates an Excel writer. A path ending in .xlsx is a
// single fixed file overwritten per job; anything else is a directory.
func NewExcelWriter(path string) (*ExcelWriter, error) {
	if path == "" {
		return nil, fmt.Errorf("Excel output path is required")
	}
	if !strings.HasSuffix(path, ".xlsx") {
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	} else if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	return &ExcelWriter{basePath: path}, nil
}

// Name implements Writer.
func (w *ExcelWriter) Name() string { return "excel" }

// Write implements Writer.
func (w *ExcelWriter) Write(ctx context.Context, doc *Document) error {
	f := excelize.NewFile()
	defer f.Close()

	const reviewSheet = "Reviews"
	f.SetSheetName(f.GetSheetName(0), reviewSheet)

	header := []interface{}{
		"ID", "Platform", "Reviewer", "Rating", "Text", "Date", "Verified",
		"Helpful Votes", "Sentiment", "Categories", "Relevance", "Strategy", "Source URL",
	}
	if err := f.SetSheetRow(reviewSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range doc.Reviews {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			r.ID, r.Platform, r.ReviewerName, r.Rating, r.Text, r.Date,
			r.VerifiedPurchase, r.HelpfulVotes, r.Sentiment,
			strings.Join(r.Categories, "|"), r.KeywordRelevance,
			string(r.Strategy), r.SourceURL,
		}
		if err := f.SetSheetRow(reviewSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := w.writeInsights(f, doc); err != nil {
		return err
	}

	target := w.basePath
	if !strings.HasSuffix(w.basePath, ".xlsx") {
		target = filepath.Join(w.basePath, doc.JobID+".xlsx")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := f.SaveAs(target); err != nil {
		return fmt.Errorf("save workbook %s: %w", target, err)
	}
	return nil
}

func (w *ExcelWriter) writeInsights(f *excelize.File, doc *Document) error {
	const sheet = "Insights"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create insights sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Job ID", doc.JobID},
		{"Product", doc.Product},
		{"Scraped At", doc.ScrapedAt.Format("2006-01-02 15:04:05")},
		{"Total Reviews", doc.Insights.TotalReviews},
		{"Average Rating", doc.Insights.AverageRating},
		{"Verified Purchases", doc.Insights.VerifiedCount},
		{"Positive", doc.Insights.SentimentCounts["positive"]},
		{"Negative", doc.Insights.SentimentCounts["negative"]},
		{"Neutral", doc.Insights.SentimentCounts["neutral"]},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write insights row %d: %w", i+1, err)
		}
	}
	return nil
}

// Close implements Writer.
func (w *ExcelWriter) Close() error { return nil }
