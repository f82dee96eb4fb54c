// Package storage is the durable last-known-good cache behind the tiered
// loaders: one key-value slot per payload kind, holding the raw bytes of
// the most recent remote payload that passed validation.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS payload_cache (
  cache_key  TEXT PRIMARY KEY,
  body       TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Get returns the cached payload for key, or nil when nothing has been
// cached yet.
func (d *DB) Get(ctx context.Context, key string) ([]byte, error) {
	var body string
	err := d.sql.QueryRowContext(ctx, "SELECT body FROM payload_cache WHERE cache_key = ?", key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

// Put overwrites the slot for key with body. The previous entry survives a
// failed write untouched.
func (d *DB) Put(ctx context.Context, key string, body []byte) error {
	_, err := d.sql.ExecContext(ctx, `
INSERT INTO payload_cache(cache_key, body, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(cache_key) DO UPDATE SET body = excluded.body, updated_at = CURRENT_TIMESTAMP`,
		key, string(body))
	return err
}

// Delete removes the slot for key. Missing keys are not an error.
func (d *DB) Delete(ctx context.Context, key string) error {
	_, err := d.sql.ExecContext(ctx, "DELETE FROM payload_cache WHERE cache_key = ?", key)
	return err
}

// UpdatedAt reports when the slot for key was last written; ok is false
// when nothing is cached.
func (d *DB) UpdatedAt(ctx context.Context, key string) (time.Time, bool, error) {
	var stamp string
	err := d.sql.QueryRowContext(ctx, "SELECT updated_at FROM payload_cache WHERE cache_key = ?", key).Scan(&stamp)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	// Parse SQLite CURRENT_TIMESTAMP format
	// Try "2006-01-02 15:04:05" then RFC3339
	if t, perr := time.Parse("2006-01-02 15:04:05", stamp); perr == nil {
		return t, true, nil
	}
	if t, perr := time.Parse(time.RFC3339, stamp); perr == nil {
		return t, true, nil
	}
	return time.Time{}, true, nil
}
