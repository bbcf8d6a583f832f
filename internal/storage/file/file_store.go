// Package file persists the account as a JSON document on disk, the
// per-browser local storage analog: one object keyed by the fixed state
// key.
package file

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"banquito/internal/core"
	"banquito/internal/storage"
)

// Store reads and writes {"bank_state_v1": {...}} at a fixed path.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates the store, ensuring the parent directory exists. The file
// itself is created on first save.
func New(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &Store{path: path}, nil
}

// Load returns the stored account, or the default demo account on any
// failure. Read problems are logged and swallowed.
func (s *Store) Load(ctx context.Context) *core.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.WarnContext(ctx, "State file unreadable, starting fresh", "path", s.path, "error", err)
		}
		return core.DefaultAccount()
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		slog.WarnContext(ctx, "State file malformed, starting fresh", "path", s.path, "error", err)
		return core.DefaultAccount()
	}
	raw, ok := doc[storage.StateKey]
	if !ok {
		return core.DefaultAccount()
	}
	a, err := storage.DecodeAccount(raw)
	if err != nil {
		slog.WarnContext(ctx, "Stored record malformed, starting fresh", "state_key", storage.StateKey, "error", err)
		return core.DefaultAccount()
	}
	return a
}

// Save serializes the full account and rewrites the document. The write
// goes through a temp file and rename so a crash never leaves a truncated
// record behind.
func (s *Store) Save(ctx context.Context, a *core.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := storage.EncodeAccount(a)
	if err != nil {
		return err
	}
	doc := map[string]json.RawMessage{storage.StateKey: record}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) Close() error { return nil }
