package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Factory builds the orchestrator for a new session.
type Factory func(id string) *Orchestrator

type session struct {
	orch     *Orchestrator
	lastSeen time.Time
}

// Sessions keeps one isolated orchestrator per browser, keyed by a random
// id and expired after ttl of inactivity.
type Sessions struct {
	mu      sync.Mutex
	items   map[string]*session
	ttl     time.Duration
	factory Factory
	now     func() time.Time
}

// NewSessions creates an empty session store.
func NewSessions(ttl time.Duration, factory Factory) *Sessions {
	return &Sessions{
		items:   make(map[string]*session),
		ttl:     ttl,
		factory: factory,
		now:     time.Now,
	}
}

// Get returns the session for id, creating a fresh one when id is empty,
// malformed, unknown or expired. The returned id may differ from the input.
func (s *Sessions) Get(id string) (string, *Orchestrator) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.items[id]; ok {
		if s.ttl <= 0 || now.Sub(sess.lastSeen) < s.ttl {
			sess.lastSeen = now
			return id, sess.orch
		}
		delete(s.items, id)
	}

	newID := uuid.NewString()
	sess := &session{orch: s.factory(newID), lastSeen: now}
	s.items[newID] = sess
	return newID, sess.orch
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Sessions) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := s.now()
	for id, sess := range s.items {
		if now.Sub(sess.lastSeen) >= s.ttl {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
