package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("session not found")
	ErrAlreadyJoined = errors.New("player already in session")
	ErrNotJoined     = errors.New("player not in session")
)

// Repository is an in-memory session store. Sessions are returned as copies
// so holders never observe concurrent roster changes.
type Repository struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRepository creates an empty repository
func NewRepository() *Repository {
	return &Repository{sessions: make(map[string]*Session)}
}

// Create stores a new session with a fresh id. The admin is the first
// roster member; duplicate roster entries are dropped.
func (r *Repository) Create(s Session) (*Session, error) {
	if s.Admin == "" && len(s.Players) > 0 {
		s.Admin = s.Players[0]
	}
	if s.Admin == "" {
		return nil, fmt.Errorf("session admin is required")
	}
	if s.MinBet <= 0 {
		return nil, fmt.Errorf("minimum bet must be positive, got %d", s.MinBet)
	}

	s.ID = uuid.NewString()
	roster := []string{s.Admin}
	seen := map[string]bool{s.Admin: true}
	for _, p := range s.Players {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		roster = append(roster, p)
	}
	s.Players = roster

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = &s

	return copySession(&s), nil
}

// Get returns the session with the given id
func (r *Repository) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return copySession(s), nil
}

// Delete removes the session with the given id
func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(r.sessions, id)
	return nil
}

// Join adds a player to the session roster
func (r *Repository) Join(id, player string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	for _, p := range s.Players {
		if p == player {
			return nil, ErrAlreadyJoined
		}
	}
	s.Players = append(s.Players, player)

	return copySession(s), nil
}

// Leave removes a player from the session roster
func (r *Repository) Leave(id, player string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	for i, p := range s.Players {
		if p == player {
			s.Players = append(s.Players[:i], s.Players[i+1:]...)
			return copySession(s), nil
		}
	}
	return nil, ErrNotJoined
}

func copySession(s *Session) *Session {
	out := *s
	out.Players = append([]string(nil), s.Players...)
	return &out
}
