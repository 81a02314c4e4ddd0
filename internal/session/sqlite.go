package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sessionsTable = `
CREATE TABLE IF NOT EXISTS sessions (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	expires_at INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_sessions_expires ON sessions(expires_at);
`

// SQLite is a Store persisted in a SQLite file. expires_at holds Unix
// nanoseconds; zero never expires.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (creating if needed) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serialises writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sessionsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

// Get returns the stored value, dropping the row if it has expired.
func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value   string
		expires int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM sessions WHERE key = ?`, key,
	).Scan(&value, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session %s: %w", key, err)
	}

	if expires != 0 && s.now().UnixNano() >= expires {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE key = ?`, key); err != nil {
			return "", false, fmt.Errorf("failed to drop expired session %s: %w", key, err)
		}
		return "", false, nil
	}
	return value, true, nil
}

// Set upserts the value. A non-positive ttl never expires.
func (s *SQLite) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	var expires int64
	if at := expiry(s.now(), ttl); !at.IsZero() {
		expires = at.UnixNano()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP`,
		key, value, expires,
	)
	if err != nil {
		return fmt.Errorf("failed to write session %s: %w", key, err)
	}
	return nil
}

// Clear deletes the key. Missing keys are not an error.
func (s *SQLite) Clear(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", key, err)
	}
	return nil
}

// Purge deletes expired rows and returns how many were removed.
func (s *SQLite) Purge(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at != 0 AND expires_at <= ?`, s.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
