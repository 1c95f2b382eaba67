package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"wear404_storefront/internal/database"
)

// SQLite stores the value as one row of a kv_store table.
type SQLite struct {
	db  *sql.DB
	key string
}

// OpenSQLite opens the database at path and returns a Store bound to key.
func OpenSQLite(ctx context.Context, path, key string) (*SQLite, error) {
	db, err := database.OpenSQLite(path)
	if err != nil {
		return nil, wrap("open", err)
	}
	s, err := NewSQLite(ctx, db, key)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLite creates the kv_store table if needed.
func NewSQLite(ctx context.Context, db *sql.DB, key string) (*SQLite, error) {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`); err != nil {
		return nil, wrap("create table", err)
	}
	return &SQLite{db: db, key: key}, nil
}

func (s *SQLite) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, s.key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("select", err)
	}
	return data, nil
}

func (s *SQLite) Save(ctx context.Context, data []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_store(key, value, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, data, time.Now().UTC())
	if err != nil {
		return wrap("upsert", err)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
