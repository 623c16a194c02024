package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"dropsort/internal/fileutil"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the history database after a mismatch.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the
// expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// CycleRecord summarizes one completed sort cycle.
type CycleRecord struct {
	ID           string
	StartedAt    time.Time
	Duration     time.Duration
	Planned      int
	Moved        int
	Failed       int
	ErrorSummary string
	Failures     []FailureRecord
}

// FailureRecord describes one per-file failure within a cycle.
type FailureRecord struct {
	Path     string
	Category string
	Kind     string
	Reason   string
}

// Store manages the sort cycle journal backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database inside the given
// state directory.
func Open(stateDir string) (*Store, error) {
	if err := fileutil.EnsureDir(stateDir); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(stateDir, "history.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// RecordCycle persists one cycle summary and its per-file failures.
func (s *Store) RecordCycle(ctx context.Context, rec CycleRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cycle tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cycles (id, started_at, duration_ms, planned, moved, failed, error_summary)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.Duration.Milliseconds(),
		rec.Planned,
		rec.Moved,
		rec.Failed,
		rec.ErrorSummary,
	); err != nil {
		return fmt.Errorf("insert cycle: %w", err)
	}

	for _, failure := range rec.Failures {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cycle_failures (cycle_id, path, category, kind, reason)
             VALUES (?, ?, ?, ?, ?)`,
			rec.ID, failure.Path, failure.Category, failure.Kind, failure.Reason,
		); err != nil {
			return fmt.Errorf("insert cycle failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cycle tx: %w", err)
	}
	return nil
}

// RecentCycles returns up to limit cycle records, newest first, including
// their failure details.
func (s *Store) RecentCycles(ctx context.Context, limit int) ([]CycleRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, planned, moved, failed, error_summary
         FROM cycles ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	var records []CycleRecord
	for rows.Next() {
		var (
			rec        CycleRecord
			startedAt  string
			durationMS int64
		)
		if err := rows.Scan(&rec.ID, &startedAt, &durationMS, &rec.Planned, &rec.Moved, &rec.Failed, &rec.ErrorSummary); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, startedAt); parseErr == nil {
			rec.StartedAt = ts
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycles: %w", err)
	}

	for i := range records {
		failures, err := s.cycleFailures(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Failures = failures
	}
	return records, nil
}

// Stats aggregates lifetime totals across all recorded cycles.
type Stats struct {
	Cycles int
	Moved  int
	Failed int
}

// TotalStats returns aggregate counts over the whole journal.
func (s *Store) TotalStats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(moved), 0), COALESCE(SUM(failed), 0) FROM cycles`,
	).Scan(&stats.Cycles, &stats.Moved, &stats.Failed)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return stats, nil
}

func (s *Store) cycleFailures(ctx context.Context, cycleID string) ([]FailureRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, category, kind, reason FROM cycle_failures WHERE cycle_id = ? ORDER BY id`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("query cycle failures: %w", err)
	}
	defer rows.Close()

	var failures []FailureRecord
	for rows.Next() {
		var f FailureRecord
		if err := rows.Scan(&f.Path, &f.Category, &f.Kind, &f.Reason); err != nil {
			return nil, fmt.Errorf("scan cycle failure: %w", err)
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}
