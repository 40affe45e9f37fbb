package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/ringscan/pkg/ringscan/store"
)

// DefaultBatchSize is the number of rows committed per transaction.
const DefaultBatchSize = 500

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db        *sql.DB
	tx        *sql.Tx
	batchSize int
	inBatch   int
}

// OpenSQLite opens a SQLite database with WAL mode enabled, creates the
// schema if absent, and opens the initial write transaction. batchSize rows
// are committed per transaction; values <= 0 select DefaultBatchSize.
func OpenSQLite(ctx context.Context, path string, batchSize int) (store.Store, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode so committed batches stay readable during the run
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Initialize schema
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	s := &sqliteStore{db: db, batchSize: batchSize}
	if err := s.begin(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close rolls back any uncommitted batch and closes the database connection.
func (s *sqliteStore) Close() error {
	if s.tx != nil {
		s.tx.Rollback()
		s.tx = nil
	}
	return s.db.Close()
}

// initSchema creates tables and indexes if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS systems (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	system_name TEXT NOT NULL,
	x REAL,
	y REAL,
	z REAL,
	distance_from_sol REAL,
	body_count INTEGER NOT NULL DEFAULT 0,
	matched_body_name TEXT NOT NULL,
	matched_body_json TEXT NOT NULL,
	system_json TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_systems_distance ON systems(distance_from_sol);
CREATE INDEX IF NOT EXISTS idx_systems_body_count ON systems(body_count DESC);
CREATE INDEX IF NOT EXISTS idx_systems_name ON systems(system_name);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	systems_scanned INTEGER NOT NULL,
	systems_matched INTEGER NOT NULL
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

func (s *sqliteStore) begin(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	s.tx = tx
	s.inBatch = 0
	return nil
}

// InsertMatch writes one row into the open transaction. When the batch
// fills, the transaction commits and the next one opens immediately, so the
// store is always inside an open transaction between commits.
func (s *sqliteStore) InsertMatch(ctx context.Context, m store.Match) error {
	const stmt = `
INSERT INTO systems (system_name, x, y, z, distance_from_sol, body_count, matched_body_name, matched_body_json, system_json)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	if _, err := s.tx.ExecContext(
		ctx,
		stmt,
		m.SystemName,
		m.X,
		m.Y,
		m.Z,
		m.DistanceFromSol,
		m.BodyCount,
		m.BodyName,
		m.BodyJSON,
		m.SystemJSON,
	); err != nil {
		return err
	}

	s.inBatch++
	if s.inBatch >= s.batchSize {
		return s.commitAndReopen(ctx)
	}
	return nil
}

// Flush commits the partial batch and reopens the transaction.
func (s *sqliteStore) Flush(ctx context.Context) error {
	if s.inBatch == 0 {
		return nil
	}
	return s.commitAndReopen(ctx)
}

func (s *sqliteStore) commitAndReopen(ctx context.Context) error {
	if err := s.tx.Commit(); err != nil {
		return err
	}
	s.tx = nil
	return s.begin(ctx)
}

// MatchCount returns the number of committed rows.
func (s *sqliteStore) MatchCount(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM systems`).Scan(&n)
	return n, err
}

// NearestMatches returns committed rows ordered by distance from Sol.
func (s *sqliteStore) NearestMatches(ctx context.Context, limit int) ([]store.Match, error) {
	return s.queryMatches(ctx, `
SELECT id, system_name, x, y, z, distance_from_sol, body_count, matched_body_name, matched_body_json, system_json
FROM systems
ORDER BY distance_from_sol ASC
LIMIT ?;
`, limit)
}

// TopByBodyCount returns committed rows ordered by body count, descending.
func (s *sqliteStore) TopByBodyCount(ctx context.Context, limit int) ([]store.Match, error) {
	return s.queryMatches(ctx, `
SELECT id, system_name, x, y, z, distance_from_sol, body_count, matched_body_name, matched_body_json, system_json
FROM systems
ORDER BY body_count DESC
LIMIT ?;
`, limit)
}

func (s *sqliteStore) queryMatches(ctx context.Context, query string, limit int) ([]store.Match, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []store.Match
	for rows.Next() {
		var (
			m       store.Match
			x, y, z sql.NullFloat64
			dist    sql.NullFloat64
		)
		if err := rows.Scan(&m.ID, &m.SystemName, &x, &y, &z, &dist, &m.BodyCount, &m.BodyName, &m.BodyJSON, &m.SystemJSON); err != nil {
			return nil, err
		}
		m.X, m.Y, m.Z = x.Float64, y.Float64, z.Float64
		m.DistanceFromSol = dist.Float64
		results = append(results, m)
	}
	return results, rows.Err()
}

// RecordRun inserts one run record outside the batch transaction.
func (s *sqliteStore) RecordRun(ctx context.Context, r store.Run) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO runs (id, started_at, finished_at, systems_scanned, systems_matched)
VALUES (?, ?, ?, ?, ?);
`,
		r.ID,
		r.StartedAt.UTC().Format(time.RFC3339),
		r.FinishedAt.UTC().Format(time.RFC3339),
		r.Scanned,
		r.Matched,
	)
	return err
}

// Runs returns recorded runs, newest first.
func (s *sqliteStore) Runs(ctx context.Context) ([]store.Run, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, started_at, finished_at, systems_scanned, systems_matched
FROM runs
ORDER BY started_at DESC;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var (
			r                 store.Run
			started, finished string
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.Scanned, &r.Matched); err != nil {
			return nil, err
		}
		if parsed, perr := time.Parse(time.RFC3339, started); perr == nil {
			r.StartedAt = parsed
		}
		if parsed, perr := time.Parse(time.RFC3339, finished); perr == nil {
			r.FinishedAt = parsed
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Optimize refreshes the query planner's statistics after a bulk load.
func (s *sqliteStore) Optimize(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `ANALYZE`)
	return err
}
