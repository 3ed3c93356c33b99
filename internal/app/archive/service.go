package archive

import (
	"context"
	"fmt"

	"github.com/vishaltiwari230996/life-sorter/internal/domain"
	"github.com/vishaltiwari230996/life-sorter/internal/observability"
)

const defaultListLimit = 20

// Service keeps completed interviews in a SessionArchive.
type Service struct {
	store domain.SessionArchive
}

// NewService creates an archive service. A nil store disables archiving.
func NewService(store domain.SessionArchive) *Service {
	return &Service{
		store: store,
	}
}

// Enabled reports whether a backing store is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.store != nil
}

// Archive stores a completed session.
func (s *Service) Archive(ctx context.Context, sess *domain.Session) error {
	if !s.Enabled() {
		return nil
	}
	if sess.Stage != domain.StageComplete {
		return fmt.Errorf("archive session %s at %s: %w", sess.ID, sess.Stage, domain.ErrInvalidTransition)
	}

	rec := domain.NewArchivedSession(sess)
	if err := s.store.ArchiveSession(ctx, rec); err != nil {
		return err
	}
	observability.LoggerFromContext(ctx).Info("session archived",
		"session_id", sess.ID,
		"domain", sess.Domain,
		"matched_task", sess.MatchedTask,
	)
	return nil
}

// ListCompleted returns the last `limit` archived sessions, newest first.
// If limit <= 0, a reasonable default value is used.
func (s *Service) ListCompleted(ctx context.Context, limit int) ([]*domain.ArchivedSession, error) {
	if !s.Enabled() {
		return []*domain.ArchivedSession{}, nil
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	recs, err := s.store.ListArchived(ctx, limit)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []*domain.ArchivedSession{}
	}
	return recs, nil
}

func (s *Service) Get(ctx context.Context, id domain.SessionID) (*domain.ArchivedSession, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("archived session %s: %w", id, domain.ErrNotFound)
	}
	return s.store.GetArchived(ctx, id)
}
