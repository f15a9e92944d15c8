// internal/api/session/store.go
package session

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/newthinker/traderstats/internal/core"
	"github.com/newthinker/traderstats/internal/ingest"
	"github.com/newthinker/traderstats/internal/journal"
)

// Session is one imported batch held for report requests.
type Session struct {
	ID         string              `json:"id"`
	Trades     *journal.Store      `json:"-"`
	Files      []ingest.FileResult `json:"files"`
	CreatedAt  time.Time           `json:"created_at"`
	AccessedAt time.Time           `json:"accessed_at"`
}

// Store manages sessions. The least recently used session is evicted at
// capacity and sessions idle for longer than the TTL expire.
type Store struct {
	sessions map[string]*Session
	order    []string // least recently used first
	maxSize  int
	ttl      time.Duration
	mu       sync.Mutex
	now      func() time.Time
}

// NewStore creates a new session store. A zero ttl disables expiry.
func NewStore(maxSize int, ttl time.Duration) *Store {
	if maxSize < 1 {
		maxSize = 1
	}
	return &Store{
		sessions: make(map[string]*Session),
		order:    make([]string, 0, maxSize),
		maxSize:  maxSize,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a session for an imported trade store and returns it.
func (s *Store) Create(trades *journal.Store, files []ingest.FileResult) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := &Session{
		ID:         uuid.NewString(),
		Trades:     trades,
		Files:      files,
		CreatedAt:  now,
		AccessedAt: now,
	}

	s.sweepLocked(now)

	// Evict least recently used if at capacity
	for len(s.sessions) >= s.maxSize && len(s.order) > 0 {
		oldest := s.order[0]
		delete(s.sessions, oldest)
		s.order = s.order[1:]
	}

	s.sessions[sess.ID] = sess
	s.order = append(s.order, sess.ID)

	copied := *sess
	return &copied
}

// Get retrieves a session by ID and refreshes its idle timer.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	if s.expired(sess, now) {
		s.removeLocked(id)
		return nil, core.ErrSessionNotFound
	}

	sess.AccessedAt = now
	s.touchLocked(id)
	// Return copy to prevent race conditions; the trade store is immutable.
	copied := *sess
	return &copied, nil
}

// Delete removes a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return core.ErrSessionNotFound
	}
	s.removeLocked(id)
	return nil
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.AccessedAt) > s.ttl
}

func (s *Store) sweepLocked(now time.Time) int {
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			s.removeLocked(id)
			removed++
		}
	}
	return removed
}

// touchLocked moves id to the most recently used end of the order.
func (s *Store) touchLocked(id string) {
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = append(slices.Delete(s.order, i, i+1), id)
	}
}

func (s *Store) removeLocked(id string) {
	delete(s.sessions, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}
