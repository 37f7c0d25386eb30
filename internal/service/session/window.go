// Package session keeps the bounded per-session conversation windows.
// Windows live for the process lifetime; there is no idle eviction.
package session

import (
	"sync"

	"github.com/sandevgo/agriaid/internal/core"
)

// Store is the in-memory core.SessionStore. Windows are created on first
// reference. The map guard covers window creation and lookup; a single
// session's turns are assumed to arrive one at a time.
type Store struct {
	mu      sync.Mutex
	k       int
	windows map[string]*window
}

type window struct {
	turns []core.Turn
}

func NewStore(k int) *Store {
	if k <= 0 {
		k = 10
	}

	return &Store{
		k:       k,
		windows: make(map[string]*window),
	}
}

// History returns a copy of the session's turns, oldest first.
func (s *Store) History(sessionID string) []core.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[sessionID]
	if !ok {
		return nil
	}

	out := make([]core.Turn, len(w.turns))
	copy(out, w.turns)
	return out
}

// Append records a completed turn, evicting the oldest once the window
// exceeds K.
func (s *Store) Append(sessionID string, turn core.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[sessionID]
	if !ok {
		w = &window{}
		s.windows[sessionID] = w
	}

	w.turns = append(w.turns, turn)
	if len(w.turns) > s.k {
		w.turns = w.turns[len(w.turns)-s.k:]
	}
}

// Len reports the current window length for a session.
func (s *Store) Len(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[sessionID]
	if !ok {
		return 0
	}
	return len(w.turns)
}
