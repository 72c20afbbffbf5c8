package archive

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/esg-insight/internal/accuracy"
)

// Pool is the subset of pgxpool.Pool the archive needs. pgxmock satisfies it
// for unit tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS reports (
	id          TEXT PRIMARY KEY,
	created_at  TIMESTAMPTZ NOT NULL,
	fingerprint TEXT NOT NULL,
	store_rows  INTEGER NOT NULL,
	view_rows   INTEGER NOT NULL,
	overall     DOUBLE PRECISION NOT NULL,
	grade       TEXT NOT NULL,
	readiness   TEXT NOT NULL,
	checks      JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
CREATE INDEX IF NOT EXISTS idx_reports_fingerprint ON reports(fingerprint);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveReport(ctx context.Context, report *accuracy.Report) error {
	checksJSON, err := json.Marshal(report.Checks)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal checks")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO reports (id, created_at, fingerprint, store_rows, view_rows, overall, grade, readiness, checks)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		report.ID.String(), report.CreatedAt, report.StoreFingerprint,
		report.StoreRows, report.ViewRows, report.Overall,
		report.Grade, report.Readiness, checksJSON,
	)
	return eris.Wrapf(err, "postgres: insert report %s", report.ID)
}

func (s *PostgresStore) GetReport(ctx context.Context, id uuid.UUID) (*accuracy.Report, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, created_at, fingerprint, store_rows, view_rows, overall, grade, readiness, checks
		 FROM reports WHERE id = $1`, id.String())

	var report accuracy.Report
	var idStr string
	var checksJSON []byte
	err := row.Scan(&idStr, &report.CreatedAt, &report.StoreFingerprint,
		&report.StoreRows, &report.ViewRows, &report.Overall,
		&report.Grade, &report.Readiness, &checksJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get report %s", id)
	}

	report.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: parse report id %s", idStr)
	}
	if err := json.Unmarshal(checksJSON, &report.Checks); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal checks for %s", id)
	}
	return &report, nil
}

func (s *PostgresStore) ListReports(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, created_at, fingerprint, view_rows, overall, grade
		 FROM reports ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list reports")
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var s Summary
		var idStr string
		if err := rows.Scan(&idStr, &s.CreatedAt, &s.StoreFingerprint,
			&s.ViewRows, &s.Overall, &s.Grade); err != nil {
			return nil, eris.Wrap(err, "postgres: scan report summary")
		}
		s.ID, err = uuid.Parse(idStr)
		if err != nil {
			return nil, eris.Wrapf(err, "postgres: parse report id %s", idStr)
		}
		summaries = append(summaries, s)
	}
	return summaries, eris.Wrap(rows.Err(), "postgres: list reports")
}
