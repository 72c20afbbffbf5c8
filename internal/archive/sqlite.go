package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/esg-insight/internal/accuracy"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id          TEXT PRIMARY KEY,
	created_at  DATETIME NOT NULL,
	fingerprint TEXT NOT NULL,
	store_rows  INTEGER NOT NULL,
	view_rows   INTEGER NOT NULL,
	overall     REAL NOT NULL,
	grade       TEXT NOT NULL,
	readiness   TEXT NOT NULL,
	checks      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
CREATE INDEX IF NOT EXISTS idx_reports_fingerprint ON reports(fingerprint);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveReport(ctx context.Context, report *accuracy.Report) error {
	checksJSON, err := json.Marshal(report.Checks)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal checks")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, created_at, fingerprint, store_rows, view_rows, overall, grade, readiness, checks)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID.String(), report.CreatedAt, report.StoreFingerprint,
		report.StoreRows, report.ViewRows, report.Overall,
		report.Grade, report.Readiness, string(checksJSON),
	)
	return eris.Wrapf(err, "sqlite: insert report %s", report.ID)
}

func (s *SQLiteStore) GetReport(ctx context.Context, id uuid.UUID) (*accuracy.Report, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, fingerprint, store_rows, view_rows, overall, grade, readiness, checks
		 FROM reports WHERE id = ?`, id.String())

	var report accuracy.Report
	var idStr, checksJSON string
	err := row.Scan(&idStr, &report.CreatedAt, &report.StoreFingerprint,
		&report.StoreRows, &report.ViewRows, &report.Overall,
		&report.Grade, &report.Readiness, &checksJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get report %s", id)
	}

	report.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: parse report id %s", idStr)
	}
	if err := json.Unmarshal([]byte(checksJSON), &report.Checks); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal checks for %s", id)
	}
	return &report, nil
}

func (s *SQLiteStore) ListReports(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, fingerprint, view_rows, overall, grade
		 FROM reports ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list reports")
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		var idStr string
		if err := rows.Scan(&idStr, &s.CreatedAt, &s.StoreFingerprint,
			&s.ViewRows, &s.Overall, &s.Grade); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan report summary")
		}
		s.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: parse report id %s", idStr)
		}
		summaries = append(summaries, s)
	}
	return summaries, eris.Wrap(rows.Err(), "sqlite: list reports")
}
