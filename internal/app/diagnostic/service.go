// Package diagnostic runs the interview: it drives the session state
// machine through the session store and answers task lookups from the
// knowledge cache.
package diagnostic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vishaltiwari230996/life-sorter/internal/app/archive"
	"github.com/vishaltiwari230996/life-sorter/internal/domain"
	"github.com/vishaltiwari230996/life-sorter/internal/knowledge"
	"github.com/vishaltiwari230996/life-sorter/internal/observability"
)

type Service struct {
	cache       *knowledge.Cache
	sessions    domain.SessionStore
	recommender domain.Recommender
	archive     *archive.Service
	now         func() time.Time
}

func NewService(
	cache *knowledge.Cache,
	sessions domain.SessionStore,
	recommender domain.Recommender,
	archived *archive.Service,
) *Service {
	return &Service{
		cache:       cache,
		sessions:    sessions,
		recommender: recommender,
		archive:     archived,
		now:         time.Now,
	}
}

// Preload parses every domain document. Safe to call more than once.
func (s *Service) Preload(ctx context.Context) knowledge.PreloadStats {
	return s.cache.Preload(ctx)
}

func (s *Service) CreateSession(ctx context.Context) (*domain.Session, error) {
	log := observability.LoggerFromContext(ctx)

	sess, err := s.sessions.Create()
	if err != nil {
		log.Error("failed to create session", "error", err)
		return nil, err
	}

	log.Info("session created", "session_id", sess.ID)
	return sess, nil
}

// SetOutcome records Q1. An empty label falls back to the outcome id.
func (s *Service) SetOutcome(ctx context.Context, id domain.SessionID, outcome, label string) (*domain.Session, error) {
	outcome = strings.TrimSpace(outcome)
	if outcome == "" {
		return nil, fmt.Errorf("set outcome: empty outcome: %w", domain.ErrInvalidInput)
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = outcome
	}

	log := observability.LoggerFromContext(ctx).With("session_id", id)

	sess, err := s.sessions.Mutate(id, func(w *domain.Session) error {
		return w.SetOutcome(outcome, label, s.now())
	})
	if err != nil {
		log.Warn("set outcome rejected", "error", err)
		return nil, err
	}

	log.Info("outcome set", "outcome", outcome)
	return sess, nil
}

// SetDomain records Q2.
func (s *Service) SetDomain(ctx context.Context, id domain.SessionID, domainName string) (*domain.Session, error) {
	domainName = strings.TrimSpace(domainName)
	if domainName == "" {
		return nil, fmt.Errorf("set domain: empty domain: %w", domain.ErrInvalidInput)
	}

	log := observability.LoggerFromContext(ctx).With("session_id", id)

	sess, err := s.sessions.Mutate(id, func(w *domain.Session) error {
		return w.SetDomain(domainName, s.now())
	})
	if err != nil {
		log.Warn("set domain rejected", "error", err)
		return nil, err
	}

	log.Info("domain set", "domain", domainName)
	return sess, nil
}

type SetTaskOutput struct {
	Session      *domain.Session
	MatchedTask  string
	Tier         string
	DocumentName string
	Questions    []domain.DynamicQuestion

	// NoDiagnosticContent is set when the domain or task had no structured
	// content and the generic questions were installed instead.
	NoDiagnosticContent bool
}

// SetTask records Q3, resolves the task against the session's domain
// document and installs the dynamic questions.
func (s *Service) SetTask(ctx context.Context, id domain.SessionID, task string) (*SetTaskOutput, error) {
	task = strings.TrimSpace(task)
	if task == "" {
		return nil, fmt.Errorf("set task: empty task: %w", domain.ErrInvalidInput)
	}

	current, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if current.Stage != domain.StageTask {
		return nil, fmt.Errorf("set task: session %s is at %s: %w", id, current.Stage, domain.ErrInvalidTransition)
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", id,
		"domain", current.Domain,
		"task", task,
	)

	// Document loads may block; the store lock is only taken in Mutate.
	diag := s.Diagnose(ctx, current.Domain, task)
	docName := s.cache.DocumentFor(current.Domain)

	out := &SetTaskOutput{DocumentName: docName}
	questions := questionsFor(diag)
	if len(questions) == 0 {
		questions = fallbackQuestions(task)
		out.NoDiagnosticContent = true
	}
	if diag != nil {
		out.MatchedTask = diag.MatchedTask
		out.Tier = diag.Tier
	}

	sess, err := s.sessions.Mutate(id, func(w *domain.Session) error {
		if err := w.SetTask(task, out.MatchedTask, questions, s.now()); err != nil {
			return err
		}
		w.DocumentName = docName
		return nil
	})
	if err != nil {
		log.Warn("set task rejected", "error", err)
		return nil, err
	}

	out.Session = sess
	out.Questions = sess.DynamicQuestions

	log.Info("task set, diagnostic questions loaded",
		"task_matched", out.MatchedTask,
		"tier", out.Tier,
		"num_questions", len(out.Questions),
		"no_diagnostic_content", out.NoDiagnosticContent,
		"persona", docName,
	)
	return out, nil
}

// Diagnose resolves a (domain, task) pair without touching any session.
// It returns nil when the domain has no task blocks.
func (s *Service) Diagnose(ctx context.Context, domainName, task string) *domain.Diagnostic {
	log := observability.LoggerFromContext(ctx).With("domain", domainName, "task", task)

	blocks := s.cache.Lookup(ctx, domainName)
	if len(blocks) == 0 {
		log.Info("no task blocks for domain")
		return nil
	}

	diag := knowledge.Diagnose(blocks, task)
	if diag != nil && diag.Tier == string(knowledge.TierDefault) {
		// near-miss: the query matched nothing and fell back to the first block
		log.Warn("task matched by default tier", "matched_task", diag.MatchedTask, "candidates", len(blocks))
	}
	return diag
}

type SubmitAnswerOutput struct {
	Session      *domain.Session
	NextQuestion *domain.DynamicQuestion
	AllAnswered  bool
}

// SubmitAnswer records the answer to dynamic question index.
func (s *Service) SubmitAnswer(ctx context.Context, id domain.SessionID, index int, answer string) (*SubmitAnswerOutput, error) {
	log := observability.LoggerFromContext(ctx).With("session_id", id, "question_index", index)

	sess, err := s.sessions.Mutate(id, func(w *domain.Session) error {
		return w.AddAnswer(index, answer, s.now())
	})
	if err != nil {
		log.Warn("answer rejected", "error", err)
		return nil, err
	}

	out := &SubmitAnswerOutput{
		Session:     sess,
		AllAnswered: sess.Stage == domain.StageRecommendation,
	}
	if next := index + 1; !out.AllAnswered && next < len(sess.DynamicQuestions) {
		q := sess.DynamicQuestions[next]
		out.NextQuestion = &q
	}

	log.Info("answer recorded", "progress", sess.Progress(), "all_answered", out.AllAnswered)
	return out, nil
}

type RecommendOutput struct {
	Session         *domain.Session
	Recommendations domain.RecommendationSet
}

// Recommend asks the recommender for tools once every dynamic question is
// answered, stores the result and completes the session. A session that
// is already complete returns its stored recommendations.
func (s *Service) Recommend(ctx context.Context, id domain.SessionID) (*RecommendOutput, error) {
	current, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if current.Stage == domain.StageComplete && current.Recommendations != nil {
		return &RecommendOutput{Session: current, Recommendations: *current.Recommendations}, nil
	}
	if current.Stage != domain.StageRecommendation {
		return nil, fmt.Errorf("recommend: session %s is at %s: %w", id, current.Stage, domain.ErrInvalidTransition)
	}

	log := observability.LoggerFromContext(ctx).With(
		"session_id", id,
		"domain", current.Domain,
		"task", current.Task,
	)

	req := domain.RecommendationRequest{
		SessionID:    current.ID,
		Outcome:      current.Outcome,
		OutcomeLabel: current.OutcomeLabel,
		Domain:       current.Domain,
		Task:         current.Task,
		Answers:      current.AnsweredQuestions,
		TaskContext:  s.taskBlock(ctx, current.Domain, current.MatchedTask),
	}

	recs, err := s.recommender.Recommend(ctx, req)
	if err == nil && recs == nil {
		err = errors.New("recommender returned no recommendations")
	}
	if err != nil {
		log.Error("recommender failed", "error", err)
		return nil, fmt.Errorf("recommend: %w", err)
	}

	sess, err := s.sessions.Mutate(id, func(w *domain.Session) error {
		return w.SetRecommendations(*recs, s.now())
	})
	if errors.Is(err, domain.ErrInvalidTransition) {
		// a concurrent call completed the session first
		if done, getErr := s.sessions.Get(id); getErr == nil && done.Stage == domain.StageComplete && done.Recommendations != nil {
			log.Info("session completed concurrently, returning stored recommendations")
			return &RecommendOutput{Session: done, Recommendations: *done.Recommendations}, nil
		}
	}
	if err != nil {
		log.Warn("set recommendations rejected", "error", err)
		return nil, err
	}

	if err := s.archive.Archive(ctx, sess); err != nil {
		// the interview itself is complete; only the archive copy is missing
		log.Error("failed to archive session", "error", err)
	}

	log.Info("recommendations stored",
		"extensions", len(recs.Extensions),
		"gpts", len(recs.GPTs),
		"companies", len(recs.Companies),
	)
	return &RecommendOutput{Session: sess, Recommendations: *sess.Recommendations}, nil
}

func (s *Service) taskBlock(ctx context.Context, domainName, matchedTask string) *domain.TaskBlock {
	if matchedTask == "" {
		return nil
	}
	blocks := s.cache.Lookup(ctx, domainName)
	for i := range blocks {
		if blocks[i].TaskName == matchedTask {
			b := blocks[i]
			return &b
		}
	}
	return nil
}

func (s *Service) GetSessionSummary(ctx context.Context, id domain.SessionID) (*Summary, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		observability.LoggerFromContext(ctx).Info("session lookup failed", "session_id", id, "error", err)
		return nil, err
	}
	return NewSummary(sess), nil
}

func (s *Service) DeleteSession(ctx context.Context, id domain.SessionID) error {
	if err := s.sessions.Delete(id); err != nil {
		return err
	}
	observability.LoggerFromContext(ctx).Info("session deleted", "session_id", id)
	return nil
}

// ListDomains returns the domains that have document content.
func (s *Service) ListDomains(ctx context.Context) []string {
	domains := s.cache.Domains()
	if domains == nil {
		domains = []string{}
	}
	return domains
}

// ListTasks returns the task names of a domain in document order.
func (s *Service) ListTasks(ctx context.Context, domainName string) ([]string, error) {
	tasks := s.cache.Tasks(ctx, domainName)
	if len(tasks) == 0 {
		return nil, fmt.Errorf("list tasks for %q: %w", domainName, domain.ErrUnknownDomain)
	}
	return tasks, nil
}

// Archived exposes the completed-interview archive.
func (s *Service) Archived(ctx context.Context, limit int) ([]*domain.ArchivedSession, error) {
	return s.archive.ListCompleted(ctx, limit)
}

func (s *Service) ArchivedSession(ctx context.Context, id domain.SessionID) (*domain.ArchivedSession, error) {
	return s.archive.Get(ctx, id)
}
