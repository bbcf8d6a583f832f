// Package sqlite persists the account record in a single-row local_state
// table. It trades the file backend's whole-document write for a real
// database so the demo can also exercise a production-shaped storage path.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"banquito/internal/core"
	"banquito/internal/storage"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

// New opens (or creates) the database, runs migrations, and returns the
// store.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load reads the record stored under the state key; any failure, including
// a malformed payload, yields the default account.
func (s *Store) Load(ctx context.Context) *core.Account {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM local_state WHERE key = ?`, storage.StateKey,
	).Scan(&payload)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.WarnContext(ctx, "State row unreadable, starting fresh", "state_key", storage.StateKey, "error", err)
		}
		return core.DefaultAccount()
	}

	a, err := storage.DecodeAccount(payload)
	if err != nil {
		slog.WarnContext(ctx, "Stored record malformed, starting fresh", "state_key", storage.StateKey, "error", err)
		return core.DefaultAccount()
	}
	return a
}

// Save upserts the serialized account under the state key.
func (s *Store) Save(ctx context.Context, a *core.Account) error {
	payload, err := storage.EncodeAccount(a)
	if err != nil {
		return fmt.Errorf("encode account: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO local_state (key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		storage.StateKey, payload, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}
