package session

import (
	"errors"
	"sync"
)

var (
	ErrDuplicateSession = errors.New("session: duplicate session")
	ErrNotFound         = errors.New("session: not found")
	ErrInvalidSession   = errors.New("session: invalid session")
)

// Registry stores every session for the life of the process, keyed by the
// carrier call identifier. Safe for concurrent Create/Get from interleaved
// carrier callbacks. There is deliberately no delete.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*CallSession
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*CallSession)}
}

// Create registers a session under its call identifier. At most one session
// may exist per identifier.
func (r *Registry) Create(s *CallSession) error {
	if s == nil || s.ID() == "" {
		return ErrInvalidSession
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID()]; ok {
		return ErrDuplicateSession
	}
	r.sessions[s.ID()] = s
	return nil
}

func (r *Registry) Get(id string) (*CallSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}
