package geocache

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/liberty-analytics/panel-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "geocache: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "geocache: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS resolution_cache (
	query       TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	confidence  TEXT NOT NULL,
	latitude    REAL,
	longitude   REAL,
	resolved_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	input_file  TEXT NOT NULL,
	records     INTEGER NOT NULL,
	resolved    INTEGER NOT NULL,
	failed      INTEGER NOT NULL,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_resolution_cache_source ON resolution_cache(source);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "geocache: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, query string) (*model.Outcome, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT source, confidence, latitude, longitude FROM resolution_cache WHERE query = ?`,
		query,
	)

	var o model.Outcome
	var lat, lon sql.NullFloat64
	err := row.Scan(&o.Source, &o.Confidence, &lat, &lon)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "geocache: get")
	}

	if lat.Valid && lon.Valid {
		o.Latitude = &lat.Float64
		o.Longitude = &lon.Float64
	}
	return &o, nil
}

func (s *SQLiteStore) Put(ctx context.Context, query string, outcome model.Outcome) error {
	var lat, lon any
	if outcome.HasCoordinates() {
		lat, lon = *outcome.Latitude, *outcome.Longitude
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO resolution_cache (query, source, confidence, latitude, longitude, resolved_at)
		VALUES (?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT (query) DO UPDATE SET
			source = excluded.source,
			confidence = excluded.confidence,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			resolved_at = excluded.resolved_at`,
		query, string(outcome.Source), string(outcome.Confidence), lat, lon,
	)
	return eris.Wrap(err, "geocache: put")
}

func (s *SQLiteStore) Stats(ctx context.Context) (map[model.GeoSource]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, COUNT(*) FROM resolution_cache GROUP BY source`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "geocache: stats")
	}
	defer rows.Close()

	stats := make(map[model.GeoSource]int)
	for rows.Next() {
		var source string
		var n int
		if err := rows.Scan(&source, &n); err != nil {
			return nil, eris.Wrap(err, "geocache: scan stats")
		}
		stats[model.GeoSource(source)] = n
	}
	return stats, eris.Wrap(rows.Err(), "geocache: stats iterate")
}

func (s *SQLiteStore) Clear(ctx context.Context, failedOnly bool) (int, error) {
	query := `DELETE FROM resolution_cache`
	var args []any
	if failedOnly {
		query += ` WHERE source = ?`
		args = append(args, string(model.SourceFailed))
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, eris.Wrap(err, "geocache: clear")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "geocache: rows affected")
}

func (s *SQLiteStore) RecordRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, input_file, records, resolved, failed, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.InputFile, run.Records, run.Resolved, run.Failed,
		run.StartedAt.UTC(), run.FinishedAt.UTC(),
	)
	return eris.Wrap(err, "geocache: record run")
}

func (s *SQLiteStore) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, input_file, records, resolved, failed, started_at, finished_at
		 FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "geocache: recent runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.InputFile, &r.Records, &r.Resolved, &r.Failed, &r.StartedAt, &r.FinishedAt); err != nil {
			return nil, eris.Wrap(err, "geocache: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "geocache: recent runs iterate")
}
