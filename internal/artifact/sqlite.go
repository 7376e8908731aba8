package artifact

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
	name TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// SQLiteStore keeps blobs as rows of a single SQLite table
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create artifact dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open artifact database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize artifact database: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Put inserts or replaces the named blob
func (s *SQLiteStore) Put(ctx context.Context, name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO artifacts (name, data, updated_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET
		 data = excluded.data,
		 updated_at = CURRENT_TIMESTAMP`,
		name, data,
	)
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Get reads the named blob
func (s *SQLiteStore) Get(ctx context.Context, name string) ([]byte, error) {
	if err := validName(name); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM artifacts WHERE name = ?", name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
