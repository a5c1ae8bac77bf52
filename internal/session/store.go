package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store handles session state persistence.
type Store struct {
	path string
}

// NewStore creates a store that persists under the library's data directory.
func NewStore(dataDir string) *Store {
	return &Store{
		path: filepath.Join(dataDir, "state.json"),
	}
}

// Path returns the state file location.
func (s *Store) Path() string { return s.path }

// Load reads the session state from disk.
func (s *Store) Load() (State, error) {
	state := Default()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, err
	}

	if err := json.Unmarshal(data, &state); err != nil {
		return Default(), fmt.Errorf("parse %s: %w", s.path, err)
	}

	return state, nil
}

// Save writes the session state to disk.
func (s *Store) Save(state State) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Storage is a key/value view of State.Items that saves on every write.
type Storage struct {
	mu    sync.Mutex
	store *Store
	state *State
}

// NewStorage wraps state; writes go through store. A nil store keeps items
// in memory only.
func NewStorage(store *Store, state *State) *Storage {
	return &Storage{store: store, state: state}
}

func (s *Storage) GetItem(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.state.Items[key]
	return v, ok
}

func (s *Storage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Items == nil {
		s.state.Items = make(map[string]string)
	}
	s.state.Items[key] = value
	if s.store == nil {
		return nil
	}
	return s.store.Save(*s.state)
}
