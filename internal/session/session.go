// Package session keeps the per-user interaction state in memory.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is everything that survives between two renders of one session.
type State struct {
	mu sync.Mutex

	Credential string
	Selection  string
	Category   string
	Text       string
	FileName   string
	Pages      int

	// Trigger is set by a keyboard signal and cleared once a generation
	// finishes.
	Trigger  bool
	InFlight bool

	Answer  string
	Warning string

	touched time.Time
}

// Update runs fn with the state locked.
func (s *State) Update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
	s.touched = time.Now()
}

// Snapshot returns a copy safe to read without the lock.
func (s *State) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Credential: s.Credential,
		Selection:  s.Selection,
		Category:   s.Category,
		Text:       s.Text,
		FileName:   s.FileName,
		Pages:      s.Pages,
		Trigger:    s.Trigger,
		InFlight:   s.InFlight,
		Answer:     s.Answer,
		Warning:    s.Warning,
		touched:    s.touched,
	}
}

func (s *State) lastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// Store maps session ids to states.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*State
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*State), now: time.Now}
}

// New allocates a fresh session and returns its id.
func (s *Store) New() (string, *State) {
	id := uuid.NewString()
	st := &State{touched: s.now()}
	s.mu.Lock()
	s.sessions[id] = st
	s.mu.Unlock()
	return id, st
}

func (s *Store) Get(id string) (*State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[id]
	return st, ok
}

// GetOrCreate returns the state for id, or a new session when id is unknown or
// not a valid uuid. The returned id is the one to hand back to the client.
func (s *Store) GetOrCreate(id string) (string, *State) {
	if _, err := uuid.Parse(id); err == nil {
		if st, ok := s.Get(id); ok {
			return id, st
		}
	}
	return s.New()
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and reports how many were
// removed. Sessions with a request in flight are kept.
func (s *Store) Sweep(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, st := range s.sessions {
		snap := st.Snapshot()
		if snap.InFlight {
			continue
		}
		if st.lastTouched().Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
