package domain

import "context"

// Recommender turns a finished interview into tool recommendations.
// The engine treats it as a black box and does not retry.
type Recommender interface {
	Recommend(ctx context.Context, req RecommendationRequest) (*RecommendationSet, error)
}

// RecommendationRequest gives the recommender the accumulated interview.
type RecommendationRequest struct {
	SessionID    SessionID
	Outcome      string
	OutcomeLabel string
	Domain       string
	Task         string
	Answers      []QuestionAnswer
	TaskContext  *TaskBlock // nil when the domain has no document content
}

// SessionStore defines session ownership. Mutate is the only way to run a
// state transition: fn receives a working copy under the store lock and the
// copy is committed only if fn returns nil.
type SessionStore interface {
	Create() (*Session, error)
	Get(id SessionID) (*Session, error)
	Update(session *Session) error
	Delete(id SessionID) error
	Mutate(id SessionID, fn func(*Session) error) (*Session, error)
}

// DocumentSource supplies raw text for domain documents.
type DocumentSource interface {
	// Load returns the extracted plain text of the named document.
	Load(ctx context.Context, name string) (string, error)
	// Documents lists the document names the source can serve.
	Documents(ctx context.Context) ([]string, error)
}

// SessionArchive keeps completed interviews beyond the volatile store.
type SessionArchive interface {
	ArchiveSession(ctx context.Context, record *ArchivedSession) error
	// GetArchived returns ErrNotFound for unknown ids.
	GetArchived(ctx context.Context, id SessionID) (*ArchivedSession, error)
	// ListArchived returns up to limit records, most recent first.
	ListArchived(ctx context.Context, limit int) ([]*ArchivedSession, error)
}
