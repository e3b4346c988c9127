// internal/output/json.go
package output

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// JSONWriter writes each document to its own file under a base path. The
// job ID keys the filename so repeated jobs never clobber each other.
type JSONWriter struct {
	basePath string
	mu       sync.Mutex
}

// NewJSONWriter creates a JSON writer rooted at path. A path ending in
// .json is treated as a single fixed file that is overwritten per job;
// anything else is treated as a directory.
func NewJSONWriter(path string) (*JSONWriter, error) {
	if path == "" {
		return nil, fmt.Errorf("JSON output path is required")
	}
	if !strings.HasSuffix(path, ".json") {
		if err := os.MkdirAll(path, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	} else if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	return &JSONWriter{basePath: path}, nil
}

// Name implements Writer.
func (w *JSONWriter) Name() string { return "json" }

// Write implements Writer.
func (w *JSONWriter) Write(ctx context.Context, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	target := w.basePath
	if !strings.HasSuffix(w.basePath, ".json") {
		target = filepath.Join(w.basePath, doc.JobID+".json")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := os.WriteFile(target, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}

// Close implements Writer.
func (w *JSONWriter) Close() error { return nil }
