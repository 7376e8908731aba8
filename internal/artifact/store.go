// Package artifact persists the fitted vectorizer, scaler and classifier as
// three independently addressable blobs and reloads them as a matched triple.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

var (
	// ErrNotFound is returned when a blob does not exist
	ErrNotFound = errors.New("artifact: not found")

	// ErrMismatch is returned when loaded blobs do not form one model
	ErrMismatch = errors.New("artifact: mismatched artifacts")
)

// Store reads and writes named opaque blobs
type Store interface {
	Put(ctx context.Context, name string, data []byte) error
	Get(ctx context.Context, name string) ([]byte, error)
	Close() error
}

// validName rejects names that would escape a flat namespace
func validName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return fmt.Errorf("invalid artifact name %q", name)
	}
	return nil
}

// Open returns the store selected by backend: "file" for dir, "sqlite" for
// the database at sqlitePath
func Open(backend, dir, sqlitePath string) (Store, error) {
	switch backend {
	case "", "file":
		return NewFileStore(dir)
	case "sqlite":
		return NewSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("unknown artifact backend %q", backend)
	}
}
