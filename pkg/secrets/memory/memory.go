// Package memory provides an in-memory implementation of secrets.Store for
// testing and single-process deployments. Secrets are lost when the process
// restarts.
package memory

import (
	"context"
	"sync"

	"github.com/rhuss/brandsmith/pkg/secrets"
)

// Store is an in-memory secret store.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

// Ensure Store implements secrets.Store at compile time.
var _ secrets.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

// NewWithValues creates a store pre-populated with the given values.
func NewWithValues(values map[string]string) *Store {
	s := New()
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// Get returns the value stored under name.
func (s *Store) Get(_ context.Context, name string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[name]
	if !ok {
		return "", secrets.ErrNotFound
	}
	return v, nil
}

// Set stores value under name.
func (s *Store) Set(_ context.Context, name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[name] = value
	return nil
}

// HealthCheck always succeeds for the in-memory store.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
