package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/yuque-export/internal/core/ports/driven"
)

// Ensure KVStore implements the interface.
var _ driven.PersistentStore = (*KVStore)(nil)

// KVStore is an in-memory implementation of driven.PersistentStore.
// Values are copied on the way in and out.
type KVStore struct {
	mu     sync.RWMutex
	values map[string][]byte

	// FailWith, when set, is returned by Set. Used to test persistence failures.
	FailWith error
}

// NewKVStore creates an empty store.
func NewKVStore() *KVStore {
	return &KVStore{values: make(map[string][]byte)}
}

// Set stores a copy of value under key.
func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	s.values[key] = slices.Clone(value)
	return nil
}

// Get returns a copy of the value under key.
func (s *KVStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(val), true, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Len returns the number of stored keys.
func (s *KVStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}
