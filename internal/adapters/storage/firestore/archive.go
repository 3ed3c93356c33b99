package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/vishaltiwari230996/life-sorter/internal/domain"
)

const archiveCollection = "archived_sessions"

// ArchiveStore implements domain.SessionArchive on Firestore, one document
// per completed session.
type ArchiveStore struct {
	client *firestore.Client
}

// NewArchiveStore creates a Firestore archive.
// Uses the project passed (LIFESORTER_GCP_PROJECT).
func NewArchiveStore(ctx context.Context, projectID string) (*ArchiveStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for Firestore archive")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &ArchiveStore{client: client}, nil
}

func (s *ArchiveStore) Close() error {
	return s.client.Close()
}

// ─────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────

func (s *ArchiveStore) archiveCol() *firestore.CollectionRef {
	return s.client.Collection(archiveCollection)
}

func (s *ArchiveStore) archiveDoc(id domain.SessionID) *firestore.DocumentRef {
	return s.archiveCol().Doc(string(id))
}

// ─────────────────────────────────────────
// Firestore Types
// ─────────────────────────────────────────

type answerDoc struct {
	Question string `firestore:"question"`
	Answer   string `firestore:"answer"`
	Type     string `firestore:"type"`
}

type recommendationDoc struct {
	Name           string `firestore:"name"`
	Description    string `firestore:"description"`
	URL            string `firestore:"url"`
	Category       string `firestore:"category"`
	Free           *bool  `firestore:"free"`
	Rating         string `firestore:"rating"`
	WhyRecommended string `firestore:"why_recommended"`
}

type archivedSessionDoc struct {
	Outcome      string `firestore:"outcome"`
	OutcomeLabel string `firestore:"outcome_label"`
	Domain       string `firestore:"domain"`
	Task         string `firestore:"task"`
	MatchedTask  string `firestore:"matched_task"`

	Answers    []answerDoc         `firestore:"answers"`
	Extensions []recommendationDoc `firestore:"extensions"`
	GPTs       []recommendationDoc `firestore:"gpts"`
	Companies  []recommendationDoc `firestore:"companies"`
	Summary    string              `firestore:"summary"`

	StartedAt   time.Time `firestore:"started_at"`
	CompletedAt time.Time `firestore:"completed_at"`
}

func toDoc(rec *domain.ArchivedSession) archivedSessionDoc {
	doc := archivedSessionDoc{
		Outcome:      rec.Outcome,
		OutcomeLabel: rec.OutcomeLabel,
		Domain:       rec.Domain,
		Task:         rec.Task,
		MatchedTask:  rec.MatchedTask,
		Extensions:   toRecommendationDocs(rec.Recommendations.Extensions),
		GPTs:         toRecommendationDocs(rec.Recommendations.GPTs),
		Companies:    toRecommendationDocs(rec.Recommendations.Companies),
		Summary:      rec.Recommendations.Summary,
		StartedAt:    rec.StartedAt,
		CompletedAt:  rec.CompletedAt,
	}
	for _, qa := range rec.Answers {
		doc.Answers = append(doc.Answers, answerDoc{
			Question: qa.Question,
			Answer:   qa.Answer,
			Type:     string(qa.Type),
		})
	}
	return doc
}

func fromDoc(id string, doc archivedSessionDoc) *domain.ArchivedSession {
	rec := &domain.ArchivedSession{
		SessionID:    domain.SessionID(id),
		Outcome:      doc.Outcome,
		OutcomeLabel: doc.OutcomeLabel,
		Domain:       doc.Domain,
		Task:         doc.Task,
		MatchedTask:  doc.MatchedTask,
		Recommendations: domain.RecommendationSet{
			Extensions: fromRecommendationDocs(doc.Extensions),
			GPTs:       fromRecommendationDocs(doc.GPTs),
			Companies:  fromRecommendationDocs(doc.Companies),
			Summary:    doc.Summary,
		},
		StartedAt:   doc.StartedAt,
		CompletedAt: doc.CompletedAt,
	}
	for _, a := range doc.Answers {
		rec.Answers = append(rec.Answers, domain.QuestionAnswer{
			Question: a.Question,
			Answer:   a.Answer,
			Type:     domain.QuestionType(a.Type),
		})
	}
	return rec
}

func toRecommendationDocs(in []domain.Recommendation) []recommendationDoc {
	out := make([]recommendationDoc, 0, len(in))
	for _, r := range in {
		out = append(out, recommendationDoc(r))
	}
	return out
}

func fromRecommendationDocs(in []recommendationDoc) []domain.Recommendation {
	out := make([]domain.Recommendation, 0, len(in))
	for _, r := range in {
		out = append(out, domain.Recommendation(r))
	}
	return out
}

// ─────────────────────────────────────────
// SessionArchive implementation
// ─────────────────────────────────────────

func (s *ArchiveStore) ArchiveSession(ctx context.Context, rec *domain.ArchivedSession) error {
	if rec == nil {
		return nil
	}
	_, err := s.archiveDoc(rec.SessionID).Set(ctx, toDoc(rec))
	if err != nil {
		return fmt.Errorf("firestore ArchiveSession: %w", err)
	}
	return nil
}

func (s *ArchiveStore) GetArchived(ctx context.Context, id domain.SessionID) (*domain.ArchivedSession, error) {
	snap, err := s.archiveDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("archived session %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("firestore GetArchived: %w", err)
	}

	var doc archivedSessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetArchived decode: %w", err)
	}
	return fromDoc(snap.Ref.ID, doc), nil
}

func (s *ArchiveStore) ListArchived(ctx context.Context, limit int) ([]*domain.ArchivedSession, error) {
	q := s.archiveCol().OrderBy("completed_at", firestore.Desc)
	if limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var out []*domain.ArchivedSession
	for {
		snap, err := iter.Next()
		if err != nil {
			if err == iterator.Done {
				break
			}
			return nil, fmt.Errorf("firestore ListArchived: %w", err)
		}

		var doc archivedSessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, fmt.Errorf("decode archivedSessionDoc: %w", err)
		}
		out = append(out, fromDoc(snap.Ref.ID, doc))
	}
	return out, nil
}
