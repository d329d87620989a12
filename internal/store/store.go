// Package store keeps client-local state in SQLite: preferences and the
// history of stage outputs.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/alkime/sessions/internal/session"
	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS preferences (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stage_outputs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		stage TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS stage_outputs_session ON stage_outputs(session_id, created_at);
`

// Store provides access to the local database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path with WAL.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Preference returns a stored preference, or "" when unset.
func (s *Store) Preference(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read preference %s: %w", key, err)
	}

	return value, nil
}

// SetPreference stores a preference, replacing any previous value.
func (s *Store) SetPreference(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("write preference %s: %w", key, err)
	}

	return nil
}

// SaveOutput appends a stage output. A zero CreatedAt is stamped with now.
func (s *Store) SaveOutput(ctx context.Context, out session.Output) error {
	if out.CreatedAt.IsZero() {
		out.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO stage_outputs (session_id, stage, content, created_at)
		VALUES (?, ?, ?, ?)
	`, out.SessionID, out.Stage, out.Content, unixFromTime(out.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert output: %w", err)
	}

	return nil
}

// Outputs returns a session's stage outputs, oldest first.
func (s *Store) Outputs(ctx context.Context, sessionID string) ([]session.Output, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, stage, content, created_at
		FROM stage_outputs
		WHERE session_id = ?
		ORDER BY created_at ASC, id ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query outputs: %w", err)
	}
	defer rows.Close()

	var outputs []session.Output
	for rows.Next() {
		var out session.Output
		var createdAt float64
		if err := rows.Scan(&out.SessionID, &out.Stage, &out.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scan output: %w", err)
		}
		out.CreatedAt = timeFromUnix(createdAt)
		outputs = append(outputs, out)
	}

	return outputs, rows.Err()
}

// Latest returns the most recent output for one stage of a session.
func (s *Store) Latest(ctx context.Context, sessionID, stage string) (*session.Output, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT session_id, stage, content, created_at
		FROM stage_outputs
		WHERE session_id = ? AND stage = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, sessionID, stage)

	var out session.Output
	var createdAt float64
	if err := row.Scan(&out.SessionID, &out.Stage, &out.Content, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan output: %w", err)
	}
	out.CreatedAt = timeFromUnix(createdAt)

	return &out, nil
}

func unixFromTime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func timeFromUnix(f float64) time.Time {
	sec := int64(f)
	nsec := int64((f - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
