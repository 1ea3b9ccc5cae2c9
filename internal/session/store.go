// Package session tracks which users are currently inside the time-boxed
// chat mode. An entry only records when the mode was entered; the window is
// fixed from entry and does not slide on activity.
package session

import (
	"sync"
	"time"
)

// DefaultTTL is how long a chat-mode session stays active after entry.
const DefaultTTL = 10 * time.Minute

// Store is the per-user session contract consumed by the dispatcher.
type Store interface {
	// Enter marks the user as in chat mode as of now, overwriting any
	// existing entry.
	Enter(userID string, now time.Time)

	// Active reports whether the user has an unexpired entry. An expired
	// entry is removed as a side effect (lazy expiry, no sweeper).
	Active(userID string, now time.Time) bool

	// Exit removes the user's entry. Idempotent: exiting a user with no
	// entry is a no-op.
	Exit(userID string)
}

// MemoryStore is a process-local Store. State lives for the process lifetime
// only; a restart drops every session.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]time.Time
}

// NewMemoryStore creates an empty store. A non-positive ttl falls back to
// DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]time.Time),
	}
}

func (s *MemoryStore) Enter(userID string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[userID] = now
}

func (s *MemoryStore) Active(userID string, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	enteredAt, ok := s.entries[userID]
	if !ok {
		return false
	}
	if now.Sub(enteredAt) > s.ttl {
		delete(s.entries, userID)
		return false
	}
	return true
}

func (s *MemoryStore) Exit(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, userID)
}

// Len reports how many users currently hold an entry, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
