package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vishaltiwari230996/life-sorter/internal/domain"
)

// ArchiveStore is an in-memory implementation of domain.SessionArchive.
// It is NOT persistent and is only suitable for development / local mode.
type ArchiveStore struct {
	mu      sync.RWMutex
	records map[domain.SessionID]*domain.ArchivedSession
	order   []domain.SessionID
}

func NewArchiveStore() *ArchiveStore {
	return &ArchiveStore{
		records: make(map[domain.SessionID]*domain.ArchivedSession),
	}
}

// ArchiveSession saves a completed session. Archiving the same session
// twice replaces the earlier record.
func (s *ArchiveStore) ArchiveSession(_ context.Context, record *domain.ArchivedSession) error {
	if record == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.SessionID]; !exists {
		s.order = append(s.order, record.SessionID)
	}
	cp := *record
	cp.Answers = append([]domain.QuestionAnswer(nil), record.Answers...)
	s.records[record.SessionID] = &cp
	return nil
}

func (s *ArchiveStore) GetArchived(_ context.Context, id domain.SessionID) (*domain.ArchivedSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, fmt.Errorf("archived session %s: %w", id, domain.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

// ListArchived returns the last `limit` records, newest first.
// If limit <= 0, returns all.
func (s *ArchiveStore) ListArchived(_ context.Context, limit int) ([]*domain.ArchivedSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.order) {
		limit = len(s.order)
	}

	out := make([]*domain.ArchivedSession, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		rec := *s.records[s.order[i]]
		out = append(out, &rec)
	}
	return out, nil
}
