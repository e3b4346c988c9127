// internal/output/types.go

// Package output persists scrape results. Every writer receives the same
// fixed review schema; destinations range from flat files to databases.
package output

import (
	"context"
	"time"

	"github.com/reviewlens/reviewlens/internal/analyzer"
	"github.com/reviewlens/reviewlens/internal/review"
)

// Document is one completed scrape job's worth of reviews plus its
// aggregate insights.
type Document struct {
	JobID     string            `json:"job_id" bson:"job_id"`
	Product   string            `json:"product,omitempty" bson:"product,omitempty"`
	SourceURL string            `json:"source_url,omitempty" bson:"source_url,omitempty"`
	ScrapedAt time.Time         `json:"scraped_at" bson:"scraped_at"`
	Reviews   []review.Review   `json:"reviews" bson:"reviews"`
	Insights  analyzer.Insights `json:"insights" bson:"insights"`
}

// Writer persists one document to a destination.
type Writer interface {
	Name() string
	Write(ctx context.Context, doc *Document) error
	Close() error
}

// Observer receives write telemetry. Satisfied by monitoring.Metrics; nil
// disables reporting.
type Observer interface {
	RecordsWritten(output string, count int)
	OutputError(output string)
}
