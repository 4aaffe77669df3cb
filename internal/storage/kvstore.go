// Package storage implements the persistence bridge: a small string
// key-value store on the filesystem and the task repository layered on it.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// KVStore is a minimal string key-value device store. Values are opaque;
// last write wins.
type KVStore interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// fileKVStore keeps each key in its own file under basePath.
type fileKVStore struct {
	basePath string
}

// NewFileKVStore creates a KVStore rooted at basePath, creating the
// directory if needed.
func NewFileKVStore(basePath string) (KVStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir: %w", err)
	}
	return &fileKVStore{basePath: basePath}, nil
}

func (s *fileKVStore) path(key string) string {
	return filepath.Join(s.basePath, key)
}

func (s *fileKVStore) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading key %s: %w", key, err)
	}
	return string(data), true, nil
}

func (s *fileKVStore) Set(key, value string) error {
	if err := os.WriteFile(s.path(key), []byte(value), 0o644); err != nil {
		return fmt.Errorf("writing key %s: %w", key, err)
	}
	return nil
}

func (s *fileKVStore) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting key %s: %w", key, err)
	}
	return nil
}

// MemKVStore is an in-memory KVStore for contexts where durability does
// not matter, mainly tests. Safe for concurrent use.
type MemKVStore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemKVStore creates an empty in-memory store.
func NewMemKVStore() *MemKVStore {
	return &MemKVStore{data: make(map[string]string)}
}

func (s *MemKVStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *MemKVStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemKVStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
