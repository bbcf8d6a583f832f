// Package backend selects and constructs the account store named by the
// application configuration.
package backend

import (
	"context"

	"banquito/internal/storage"
)

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// Result contains the constructed store and an optional cleanup function.
type Result struct {
	Store   storage.AccountStore
	Cleanup CleanupFunc
}

// Factory creates account stores based on configuration.
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*Result, error)
}

// Config holds everything needed to construct a store.
type Config struct {
	Type Type

	// File backend
	StateFilePath string

	// SQLite backend
	SQLiteDBPath string
}

// Type identifies a storage backend.
type Type string

const (
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid reports whether t names a known backend.
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
