// Package sqlite implements the persistence repositories on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/example/meeting-coordinator/internal/persistence"
)

// Store wraps a SQLite database handle shared by the repositories.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database named by dsn.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", dsn, err)
	}
	// SQLite handles at most one writer; a single connection avoids
	// database-locked errors under concurrent owners.
	db.SetMaxOpenConns(1)
	return &Store{db: db}, nil
}

// DB exposes the underlying handle for repository constructors.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id TEXT PRIMARY KEY,
	creator_id TEXT NOT NULL,
	title TEXT NOT NULL,
	status TEXT NOT NULL,
	window_start TEXT NOT NULL,
	window_end TEXT NOT NULL,
	duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
	committed_candidate_id TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS session_participants (
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	user_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (session_id, user_id)
);

CREATE TABLE IF NOT EXISTS candidates (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	score INTEGER NOT NULL,
	explanation TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS holds (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	account_id TEXT NOT NULL,
	owner_user_id TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	provider_event_id TEXT,
	expires_at TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_holds_session ON holds(session_id);
CREATE INDEX IF NOT EXISTS idx_holds_account_status ON holds(account_id, status);

CREATE TABLE IF NOT EXISTS events (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	account_id TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_user_time ON events(user_id, start_time);

CREATE TABLE IF NOT EXISTS constraints (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	kind TEXT NOT NULL,
	start_hour INTEGER NOT NULL DEFAULT 0,
	end_hour INTEGER NOT NULL DEFAULT 24,
	active_from TEXT,
	active_until TEXT,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS vip_policies (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	participant_hash TEXT NOT NULL,
	display_name TEXT NOT NULL,
	priority_weight REAL NOT NULL CHECK (priority_weight > 0),
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scheduling_history (
	participant_hash TEXT PRIMARY KEY,
	sessions_participated INTEGER NOT NULL DEFAULT 0,
	sessions_preferred INTEGER NOT NULL DEFAULT 0,
	last_session_ts TEXT NOT NULL
);
`

// Migrate applies the schema. Safe to call repeatedly.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

// WithTransaction executes fn inside a transaction, rolling back on error.
func (s *Store) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("sqlite: transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit transaction: %w", err)
	}
	return nil
}

// mapError converts driver errors into persistence sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrDuplicate, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrForeignKeyViolation, err)
	case strings.Contains(msg, "CHECK constraint failed"), strings.Contains(msg, "constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrConstraintViolation, err)
	}
	return err
}

// Times are stored as UTC RFC3339 strings; the fixed format keeps SQL
// lexicographic comparisons consistent with chronological order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: parse time %q: %w", value, err)
	}
	return t, nil
}

func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func timeFromNullable(v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := parseTime(v.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringFromNullable(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
