package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Keys that survive a restart. Nothing else is persisted client-side.
const (
	KeyAccessToken = "accessToken"
	KeyCart        = "cart"
)

// Store is a file-backed key-value store for the small set of client state
// that must survive a restart. Every Set/Delete rewrites the whole file
// synchronously, so the file is never more than one mutation behind memory.
type Store struct {
	path string
	mu   sync.Mutex
	data map[string]json.RawMessage
}

// DefaultPath returns the state file location (~/.voltmart/state.json)
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".voltmart", "state.json"), nil
}

// Open loads the store at path, creating an empty one if the file is
// missing or unreadable.
func Open(path string) *Store {
	s := &Store{
		path: path,
		data: map[string]json.RawMessage{},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	// A corrupt state file is treated as empty rather than fatal
	_ = json.Unmarshal(raw, &s.data)
	return s
}

// OpenDefault opens the store at the default path
func OpenDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path), nil
}

// Get unmarshals the value stored under key into out. It returns false
// when the key is absent or the stored value does not decode.
func (s *Store) Get(key string, out interface{}) bool {
	s.mu.Lock()
	raw, ok := s.data[key]
	s.mu.Unlock()
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

// GetString returns the string stored under key, or "" when absent
func (s *Store) GetString(key string) string {
	var v string
	if !s.Get(key, &v) {
		return ""
	}
	return v
}

// Set stores value under key and rewrites the file before returning
func (s *Store) Set(key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = raw
	return s.flush()
}

// Delete removes key and rewrites the file. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[key]; !ok {
		return nil
	}
	delete(s.data, key)
	return s.flush()
}

// flush writes the full store contents to disk. Caller holds s.mu.
func (s *Store) flush() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	return os.WriteFile(s.path, raw, 0600)
}
