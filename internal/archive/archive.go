// Package archive persists accuracy reports so assessments can be traced
// over time and across dataset refreshes.
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/esg-insight/internal/accuracy"
	"github.com/sells-group/esg-insight/internal/config"
)

// ErrNotFound is returned when a report ID has no archived report.
var ErrNotFound = eris.New("archive: report not found")

// Summary is the listing row for an archived report.
type Summary struct {
	ID               uuid.UUID `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	StoreFingerprint string    `json:"store_fingerprint"`
	ViewRows         int       `json:"view_rows"`
	Overall          float64   `json:"overall"`
	Grade            string    `json:"grade"`
}

// Store defines the persistence interface for accuracy reports.
type Store interface {
	SaveReport(ctx context.Context, report *accuracy.Report) error
	GetReport(ctx context.Context, id uuid.UUID) (*accuracy.Report, error)
	ListReports(ctx context.Context, limit int) ([]Summary, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open builds the archive store named by the config driver.
func Open(ctx context.Context, cfg config.ArchiveConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.Path)
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("archive: unknown driver %q", cfg.Driver)
	}
}
