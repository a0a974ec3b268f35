// Package store keeps a local activity log: graded assessment attempts and
// code runs, recorded as they happen so the History screen works without
// another round trip. The log is a client-side convenience only; the
// platform's own submission records live server-side.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// AttemptRecord is one graded assessment attempt.
type AttemptRecord struct {
	ID           string
	AssessmentID int
	Title        string
	Score        int
	Total        int
	Percentage   float64
	SubmittedAt  time.Time
}

// RunRecord is one code execution.
type RunRecord struct {
	ID         string
	ExerciseID int
	Title      string
	Language   string
	OK         bool
	RanAt      time.Time
}

// Store is the SQLite-backed activity log.
type Store struct {
	db *sql.DB
}

// Open connects to the log at dsn, applying pragmas and creating the schema
// on first use.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordAttempt appends a graded assessment attempt.
func (s *Store) RecordAttempt(ctx context.Context, r AttemptRecord) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.SubmittedAt.IsZero() {
		r.SubmittedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO attempts (id, assessment_id, title, score, total, percentage, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.AssessmentID, r.Title, r.Score, r.Total, r.Percentage, r.SubmittedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}

// RecordRun appends a code execution.
func (s *Store) RecordRun(ctx context.Context, r RunRecord) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.RanAt.IsZero() {
		r.RanAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, exercise_id, title, language, ok, ran_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.ExerciseID, r.Title, r.Language, r.OK, r.RanAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecentAttempts returns the newest attempts first, at most limit.
func (s *Store) RecentAttempts(ctx context.Context, limit int) ([]AttemptRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, assessment_id, title, score, total, percentage, submitted_at
		 FROM attempts ORDER BY submitted_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		var r AttemptRecord
		var ts string
		if err := rows.Scan(&r.ID, &r.AssessmentID, &r.Title, &r.Score, &r.Total, &r.Percentage, &ts); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		r.SubmittedAt, _ = time.Parse(time.RFC3339, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecentRuns returns the newest runs first, at most limit.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, exercise_id, title, language, ok, ran_at
		 FROM runs ORDER BY ran_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var ts string
		if err := rows.Scan(&r.ID, &r.ExerciseID, &r.Title, &r.Language, &r.OK, &ts); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.RanAt, _ = time.Parse(time.RFC3339, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

// applyPragmas configures SQLite for single-user local use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			assessment_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			score INTEGER NOT NULL,
			total INTEGER NOT NULL,
			percentage REAL NOT NULL,
			submitted_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			exercise_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			language TEXT NOT NULL,
			ok INTEGER NOT NULL,
			ran_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_attempts_submitted ON attempts(submitted_at)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ran ON runs(ran_at)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
