// Package session keeps the bearer token and cached user record in a local
// key-value store, the terminal counterpart of browser local storage.
package session

import (
	"fmt"
	"sync"
)

// Storage is a persistent string key-value store.
// SetAll and Remove apply all keys or none.
type Storage interface {
	Get(key string) (string, bool, error)
	SetAll(entries map[string]string) error
	Remove(keys ...string) error
	Close() error
}

// NewStorage creates the storage named by driver
func NewStorage(driver, path string) (Storage, error) {
	switch driver {
	case "file":
		return NewFileStorage(path), nil
	case "sqlite":
		return OpenSQLiteStorage(path)
	case "memory":
		return NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", driver)
	}
}

// MemoryStorage keeps entries in process memory
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStorage creates an empty in-memory storage
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string]string)}
}

// Get returns the value stored under key
func (s *MemoryStorage) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok, nil
}

// SetAll stores every entry
func (s *MemoryStorage) SetAll(entries map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range entries {
		s.entries[k] = v
	}
	return nil
}

// Remove deletes keys, missing keys are ignored
func (s *MemoryStorage) Remove(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}

// Close is a no-op
func (s *MemoryStorage) Close() error {
	return nil
}
