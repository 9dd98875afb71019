// Package state persists the last reading checkpoint of each book.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const stateFileName = "checkpoints.json"

// Checkpoint is the last reading position recorded for a book.
type Checkpoint struct {
	BookID       string `json:"-"`
	LastIndex    int    `json:"last_index"`
	LastQuestion string `json:"last_question,omitempty"`
	LastSummary  string `json:"last_summary,omitempty"`
	UpdatedAt    string `json:"updated_at"`
}

// NewCheckpoint stamps a checkpoint with now in RFC 3339 UTC.
func NewCheckpoint(bookID string, lastIndex int, question, summary string, now time.Time) Checkpoint {
	return Checkpoint{
		BookID:       bookID,
		LastIndex:    lastIndex,
		LastQuestion: question,
		LastSummary:  summary,
		UpdatedAt:    now.UTC().Format(time.RFC3339),
	}
}

// Store manages persistent checkpoints keyed by book ID.
// Readers only contend with the in-memory update, never with file writes.
type Store struct {
	path    string
	data    map[string]Checkpoint
	mu      sync.RWMutex
	writeMu sync.Mutex
}

// NewStore creates or loads checkpoints from dir. An empty dir selects
// DefaultDir.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &Store{
		path: filepath.Join(dir, stateFileName),
		data: make(map[string]Checkpoint),
	}
	if err := store.load(); err != nil {
		// Non-fatal - start with empty state
		store.data = make(map[string]Checkpoint)
	}
	return store, nil
}

// DefaultDir returns XDG_STATE_HOME/bookvox or ~/.local/state/bookvox
func DefaultDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "bookvox")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "bookvox")
}

// BookID derives a stable identifier from book text.
func BookID(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:16]) // First 16 bytes = 32 hex chars
}

// Path returns the checkpoint file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the checkpoint for bookID, if any.
func (s *Store) Load(bookID string) (Checkpoint, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp, ok := s.data[bookID]
	if ok {
		cp.BookID = bookID
	}
	return cp, ok
}

// Save records cp under its book ID and writes the file.
func (s *Store) Save(cp Checkpoint) error {
	return s.update(func(data map[string]Checkpoint) {
		data[cp.BookID] = cp
	})
}

// Clear removes the checkpoint for bookID.
func (s *Store) Clear(bookID string) error {
	return s.update(func(data map[string]Checkpoint) {
		delete(data, bookID)
	})
}

// update applies fn under the data lock and writes the resulting snapshot
// after releasing it. writeMu keeps snapshots landing on disk in order.
func (s *Store) update(fn func(map[string]Checkpoint)) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	fn(s.data)
	data, err := json.MarshalIndent(s.data, "", "  ")
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, append(data, '\n'), 0644)
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}
