// Package history persists recent transcripts as JSON, newest first.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Entry is one transcript with its wall-clock timestamp.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// Store reads and appends transcript history at a fixed path.
type Store struct {
	mu    sync.Mutex
	path  string
	limit int
}

// NewStore creates a history store persisting at path, capped to limit
// entries (0 disables the cap).
func NewStore(path string, limit int) *Store {
	return &Store{path: path, limit: limit}
}

// Load returns all persisted entries, newest first. A missing file yields an
// empty history.
func (s *Store) Load() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return entries, nil
}

// Append records a transcript with the current timestamp and persists the
// capped history.
func (s *Store) Append(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		// Corrupt history is replaced rather than blocking new entries.
		entries = nil
	}
	entry := Entry{Timestamp: time.Now().Format("2006-01-02 15:04:05"), Text: text}
	entries = append([]Entry{entry}, entries...)
	if s.limit > 0 && len(entries) > s.limit {
		entries = entries[:s.limit]
	}

	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return os.WriteFile(s.path, b, 0o644)
}
