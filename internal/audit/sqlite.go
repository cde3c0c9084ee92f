// Package audit is a forward-only diagnostic trail of applied traffic
// observations, for in-process debugging and postmortem replay of a single
// run. It is never read back at startup — the server's graph is always
// built fresh from the loader, never reconstructed from this log.
//
// Backed by a single-file WAL-mode SQLite database, schema-on-first-use,
// one writer connection.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// SQLiteSink appends one row per applied UPD command.
type SQLiteSink struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewSQLiteSink opens (creating if necessary) a single-file SQLite database
// at path and ensures its schema exists. Pass ":memory:" for a sink with no
// on-disk footprint, useful in tests.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("audit: open sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("audit: %s: %w", pragma, err)
		}
	}

	s := &SQLiteSink{db: db, path: path}
	if err := s.createSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteSink) createSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS observations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			edge_id INTEGER NOT NULL,
			speed REAL NOT NULL,
			ema_travel_time REAL NOT NULL,
			observed_at TIMESTAMP NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("audit: create schema: %w", err)
	}
	const idx = `CREATE INDEX IF NOT EXISTS idx_observations_edge_id ON observations(edge_id)`
	if _, err := s.db.ExecContext(ctx, idx); err != nil {
		return fmt.Errorf("audit: create index: %w", err)
	}
	return nil
}

// Record appends one observation row. observedAt is caller-supplied so
// callers control their own clock (and tests can use a fixed time).
func (s *SQLiteSink) Record(ctx context.Context, edgeID int, speed, emaTravelTime float64, observedAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO observations (edge_id, speed, ema_travel_time, observed_at) VALUES (?, ?, ?, ?)`,
		edgeID, speed, emaTravelTime, observedAt,
	)
	if err != nil {
		return fmt.Errorf("audit: insert observation: %w", err)
	}
	return nil
}

// Count returns the total number of recorded observations, for tests and
// diagnostics.
func (s *SQLiteSink) Count(ctx context.Context) (int, error) {
	var n int
	row := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM observations")
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("audit: count observations: %w", err)
	}
	return n, nil
}

// Close releases the underlying database connection.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
