package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vishaltiwari230996/life-sorter/internal/domain"
	"github.com/vishaltiwari230996/life-sorter/internal/observability"
)

// DefaultCapacity bounds the number of live sessions.
const DefaultCapacity = 1000

type entry struct {
	session *domain.Session
	seq     uint64 // insertion order, breaks CreatedAt ties on eviction
}

// SessionStore is a bounded, volatile implementation of domain.SessionStore.
// A single mutex guards all state. Sessions handed out are deep copies;
// the stored value only changes through Update and Mutate.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[domain.SessionID]*entry
	capacity int
	seq      uint64

	now   func() time.Time
	newID func() domain.SessionID
}

type Option func(*SessionStore)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *SessionStore) { s.now = now }
}

// WithIDGenerator overrides the UUIDv4 session id generator.
func WithIDGenerator(fn func() domain.SessionID) Option {
	return func(s *SessionStore) { s.newID = fn }
}

// NewSessionStore creates a store holding at most capacity sessions.
// capacity <= 0 means DefaultCapacity.
func NewSessionStore(capacity int, opts ...Option) *SessionStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &SessionStore{
		sessions: make(map[domain.SessionID]*entry),
		capacity: capacity,
		now:      time.Now,
		newID:    func() domain.SessionID { return domain.SessionID(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a new session at OUTCOME. When the store is full the
// session with the oldest CreatedAt is evicted first.
func (s *SessionStore) Create() (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.sessions) >= s.capacity {
		s.evictOldest()
	}

	id := s.newID()
	for attempts := 0; ; attempts++ {
		if _, taken := s.sessions[id]; !taken {
			break
		}
		if attempts >= 3 {
			return nil, fmt.Errorf("create session: id %s already exists", id)
		}
		id = s.newID()
	}

	now := s.now()
	s.seq++
	sess := &domain.Session{
		ID:        id,
		Stage:     domain.StageOutcome,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.sessions[id] = &entry{session: sess, seq: s.seq}
	return sess.Clone(), nil
}

// evictOldest is a linear scan; n is bounded by capacity.
func (s *SessionStore) evictOldest() {
	var victim *entry
	for _, e := range s.sessions {
		if victim == nil ||
			e.session.CreatedAt.Before(victim.session.CreatedAt) ||
			(e.session.CreatedAt.Equal(victim.session.CreatedAt) && e.seq < victim.seq) {
			victim = e
		}
	}
	if victim == nil {
		return
	}
	delete(s.sessions, victim.session.ID)
	observability.Logger().Info("session evicted",
		"session_id", victim.session.ID,
		"stage", victim.session.Stage,
		"capacity", s.capacity,
	)
}

func (s *SessionStore) Get(id domain.SessionID) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("get session %s: %w", id, domain.ErrNotFound)
	}
	return e.session.Clone(), nil
}

// Update replaces the stored session and bumps UpdatedAt.
func (s *SessionStore) Update(session *domain.Session) error {
	if session == nil {
		return fmt.Errorf("update session: nil session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[session.ID]
	if !ok {
		return fmt.Errorf("update session %s: %w", session.ID, domain.ErrNotFound)
	}
	stored := session.Clone()
	stored.UpdatedAt = s.now()
	e.session = stored
	session.UpdatedAt = stored.UpdatedAt
	return nil
}

func (s *SessionStore) Delete(id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("delete session %s: %w", id, domain.ErrNotFound)
	}
	delete(s.sessions, id)
	return nil
}

// Mutate runs fn on a working copy under the store lock and commits the
// copy only if fn succeeds. fn must not block.
func (s *SessionStore) Mutate(id domain.SessionID, fn func(*domain.Session) error) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("mutate session %s: %w", id, domain.ErrNotFound)
	}

	work := e.session.Clone()
	if err := fn(work); err != nil {
		return nil, err
	}
	e.session = work
	return work.Clone(), nil
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
