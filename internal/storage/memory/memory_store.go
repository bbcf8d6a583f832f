// Package memory is a map-backed account store for tests and throwaway
// demo runs. State does not survive the process.
package memory

import (
	"context"
	"sync"

	"banquito/internal/core"
	"banquito/internal/storage"
)

type Store struct {
	mu    sync.Mutex
	items map[string][]byte

	// SaveErr, when set, is returned by Save. Lets tests exercise the
	// swallowed-persistence-failure path.
	SaveErr error
}

func New() *Store {
	return &Store{items: make(map[string][]byte)}
}

func (s *Store) Load(_ context.Context) *core.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.items[storage.StateKey]
	if !ok {
		return core.DefaultAccount()
	}
	a, err := storage.DecodeAccount(data)
	if err != nil {
		return core.DefaultAccount()
	}
	return a
}

func (s *Store) Save(_ context.Context, a *core.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	data, err := storage.EncodeAccount(a)
	if err != nil {
		return err
	}
	s.items[storage.StateKey] = data
	return nil
}

func (s *Store) Close() error { return nil }
