package spotly

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// SessionStore persists session state across process restarts.
type SessionStore interface {
	// Load returns the persisted state. ok is false when nothing has
	// been persisted yet.
	Load() (state SessionState, ok bool, err error)
	// Save replaces the persisted state.
	Save(state SessionState) error
}

// FileStore persists the session as a JSON file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

var _ SessionStore = (*FileStore)(nil)

// NewFileStore creates a FileStore at path, creating parent
// directories as needed.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &FileStore{path: path}, nil
}

func (f *FileStore) Load() (SessionState, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return SessionState{}, false, nil
	}
	if err != nil {
		return SessionState{}, false, err
	}

	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return SessionState{}, false, err
	}
	return state, true, nil
}

func (f *FileStore) Save(state SessionState) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	// The file holds a credential; keep it owner-readable only.
	return os.WriteFile(f.path, data, 0o600)
}
