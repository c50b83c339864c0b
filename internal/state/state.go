// Package state tracks the active packing list and the most recently
// visited lists, persisted across sessions.
package state

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/packsync/packsync/internal/api"
)

const (
	stateFileName = "state.json"
	maxRecent     = 5
)

// Store holds the active-list reference and the MRU recent-lists cache.
// Mutations persist immediately; the file is small and writes are
// atomic, so there is no separate save step to forget.
type Store struct {
	mu     sync.Mutex
	path   string
	active *int
	recent []api.ListSummary
}

type fileFormat struct {
	Active *int              `json:"active,omitempty"`
	Recent []api.ListSummary `json:"recent"`
}

// Load reads the persisted state under dir, starting fresh when the
// file is missing. A corrupt file is discarded rather than surfaced:
// this is a convenience cache, not a source of truth.
func Load(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("load state: directory is empty")
	}

	err := os.MkdirAll(dir, 0o750)
	if err != nil {
		return nil, fmt.Errorf("load state: create directory: %w", err)
	}

	s := &Store{path: filepath.Join(dir, stateFileName)}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}

		return nil, fmt.Errorf("load state: %w", err)
	}

	var f fileFormat

	if json.Unmarshal(raw, &f) != nil {
		return s, nil
	}

	s.active = f.Active
	s.recent = f.Recent

	if len(s.recent) > maxRecent {
		s.recent = s.recent[:maxRecent]
	}

	return s, nil
}

// ActiveListID returns the active list, if one is set.
func (s *Store) ActiveListID() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return 0, false
	}

	return *s.active, true
}

// SetActive records listID as the active list and persists.
func (s *Store) SetActive(listID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = &listID

	return s.persistLocked()
}

// ClearActive drops the active-list reference and persists.
func (s *Store) ClearActive() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = nil

	return s.persistLocked()
}

// Recent returns the recently visited lists, most recent first.
func (s *Store) Recent() []api.ListSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]api.ListSummary, len(s.recent))
	copy(out, s.recent)

	return out
}

// PushRecent moves summary to the front of the recent-lists cache,
// de-duplicating by list ID and trimming to the newest five, then
// persists.
func (s *Store) PushRecent(summary api.ListSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]api.ListSummary, 0, len(s.recent)+1)
	next = append(next, summary)

	for _, existing := range s.recent {
		if existing.ID == summary.ID {
			continue
		}

		next = append(next, existing)
	}

	if len(next) > maxRecent {
		next = next[:maxRecent]
	}

	s.recent = next

	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(fileFormat{Active: s.active, Recent: s.recent}, "", "  ")
	if err != nil {
		return fmt.Errorf("persist state: %w", err)
	}

	writeErr := atomic.WriteFile(s.path, bytes.NewReader(data))
	if writeErr != nil {
		return fmt.Errorf("persist state: %w", writeErr)
	}

	return nil
}
