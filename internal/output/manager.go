// internal/output/manager.go
package output

import (
	"context"
	"errors"
	"fmt"

	"github.com/reviewlens/reviewlens/internal/config"
	"github.com/reviewlens/reviewlens/internal/utils"
)

// Manager fans one document out to every configured destination. A failing
// destination does not stop the others; all failures are joined into the
// returned error.
type Manager struct {
	writers  []Writer
	observer Observer
	logger   utils.Logger
}

// NewManager builds writers for every configured output. On any
// construction failure the already-open writers are closed.
func NewManager(outputs []config.OutputSettings, observer Observer, logger utils.Logger) (*Manager, error) {
	if logger == nil {
		logger = utils.NewLogger()
	}

	m := &Manager{observer: observer, logger: logger}
	for _, out := range outputs {
		w, err := newWriter(out)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("configure %s output: %w", out.Type, err)
		}
		m.writers = append(m.writers, w)
	}
	return m, nil
}

func newWriter(out config.OutputSettings) (Writer, error) {
	switch out.Type {
	case "json":
		return NewJSONWriter(out.Path)
	case "csv":
		return NewCSVWriter(out.Path)
	case "excel":
		return NewExcelWriter(out.Path)
	case "sqlite":
		return NewSQLiteWriter(out.Path, out.Table)
	case "postgresql":
		return NewPostgreSQLWriter(out.DSN, out.Table)
	case "mysql":
		return NewMySQLWriter(out.DSN, out.Table)
	case "mongodb":
		return NewMongoDBWriter(out.DSN, out.Database, out.Collection)
	default:
		return nil, fmt.Errorf("unsupported output type: %s", out.Type)
	}
}

// Write sends the document to every destination.
func (m *Manager) Write(ctx context.Context, doc *Document) error {
	var errs []error
	for _, w := range m.writers {
		if err := w.Write(ctx, doc); err != nil {
			m.logger.WithFields(map[string]interface{}{
				"output": w.Name(),
				"job_id": doc.JobID,
			}).Errorf("write failed: %v", err)
			if m.observer != nil {
				m.observer.OutputError(w.Name())
			}
			errs = append(errs, fmt.Errorf("%s: %w", w.Name(), err))
			continue
		}
		if m.observer != nil {
			m.observer.RecordsWritten(w.Name(), len(doc.Reviews))
		}
	}
	return errors.Join(errs...)
}

// Writers reports how many destinations are configured.
func (m *Manager) Writers() int {
	return len(m.writers)
}

// Close closes every writer.
func (m *Manager) Close() error {
	var errs []error
	for _, w := range m.writers {
		if err := w.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", w.Name(), err))
		}
	}
	m.writers = nil
	return errors.Join(errs...)
}
