// Package memory implements core.Store in process memory. It backs the
// "memory" adapter and lets tests inject write failures.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/notey/pkg/core"
)

// Store is a concurrency-safe in-memory key/value store.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
	writes int

	failWrites error
	failReads  error
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.failReads != nil {
		return nil, s.failReads
	}
	v, ok := s.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrKeyNotFound, key)
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites != nil {
		return s.failWrites
	}
	s.values[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWrites != nil {
		return s.failWrites
	}
	delete(s.values, key)
	return nil
}

// FailWrites makes every subsequent Set and Delete return err. Nil restores
// normal behaviour.
func (s *Store) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = err
}

// FailReads makes every subsequent Get return err.
func (s *Store) FailReads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failReads = err
}

// Writes returns the number of successful Set calls.
func (s *Store) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

var _ core.Store = (*Store)(nil)
