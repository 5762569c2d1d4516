// Package memory provides an in-process KV backend. Nothing survives the
// process; it is meant for tests and throwaway sessions.
package memory

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"budgettracker/internal/storage"
)

type Store struct {
	mu     sync.Mutex
	values map[string]string
	writes int
}

var _ storage.BatchSetter = (*Store)(nil)

// New returns a store holding a copy of seed.
func New(seed map[string]string) *Store {
	values := make(map[string]string, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &Store{values: values}
}

// NewFromFiles seeds the store from files named after keys in base. Missing
// or empty files are skipped, so a fresh directory behaves like a first run.
func NewFromFiles(base string, keys ...string) *Store {
	seed := map[string]string{}
	for _, key := range keys {
		b, err := os.ReadFile(filepath.Join(base, key))
		if err != nil {
			continue
		}
		v := strings.TrimSpace(string(b))
		if v == "" {
			continue
		}
		seed[key] = v
	}
	return New(seed)
}

// Get implements storage.KV
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Set implements storage.KV
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.writes++
	return nil
}

// SetAll implements storage.BatchSetter
func (s *Store) SetAll(_ context.Context, entries ...storage.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entries {
		s.values[e.Key] = e.Value
	}
	s.writes++
	return nil
}

func (s *Store) Close() error { return nil }

// Writes counts committed Set/SetAll calls.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Snapshot returns a copy of every stored record.
func (s *Store) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
