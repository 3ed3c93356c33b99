package diagnostic

import (
	"time"

	"github.com/vishaltiwari230996/life-sorter/internal/domain"
)

// Summary is a read-only snapshot of a session.
type Summary struct {
	SessionID    domain.SessionID `json:"session_id"`
	Stage        domain.Stage     `json:"stage"`
	Outcome      string           `json:"outcome"`
	OutcomeLabel string           `json:"outcome_label"`
	Domain       string           `json:"domain"`
	Task         string           `json:"task"`
	MatchedTask  string           `json:"matched_task"`
	PersonaDoc   string           `json:"persona_doc"`

	QuestionsAnswers         []domain.QuestionAnswer  `json:"questions_answers"`
	DynamicQuestions         []domain.DynamicQuestion `json:"dynamic_questions"`
	DynamicQuestionsProgress string                   `json:"dynamic_questions_progress"`

	HasRecommendations   bool                      `json:"has_recommendations"`
	RecommendationCounts RecommendationCounts      `json:"recommendation_counts"`
	Recommendations      *domain.RecommendationSet `json:"recommendations,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RecommendationCounts struct {
	Extensions int `json:"extensions"`
	GPTs       int `json:"gpts"`
	Companies  int `json:"companies"`
}

// NewSummary renders a session snapshot for clients.
func NewSummary(s *domain.Session) *Summary {
	sum := &Summary{
		SessionID:                s.ID,
		Stage:                    s.Stage,
		Outcome:                  s.Outcome,
		OutcomeLabel:             s.OutcomeLabel,
		Domain:                   s.Domain,
		Task:                     s.Task,
		MatchedTask:              s.MatchedTask,
		PersonaDoc:               s.DocumentName,
		QuestionsAnswers:         s.AnsweredQuestions,
		DynamicQuestions:         s.DynamicQuestions,
		DynamicQuestionsProgress: s.Progress(),
		Recommendations:          s.Recommendations,
		CreatedAt:                s.CreatedAt,
		UpdatedAt:                s.UpdatedAt,
	}
	if sum.QuestionsAnswers == nil {
		sum.QuestionsAnswers = []domain.QuestionAnswer{}
	}
	if sum.DynamicQuestions == nil {
		sum.DynamicQuestions = []domain.DynamicQuestion{}
	}
	if r := s.Recommendations; r != nil {
		sum.HasRecommendations = true
		sum.RecommendationCounts = RecommendationCounts{
			Extensions: len(r.Extensions),
			GPTs:       len(r.GPTs),
			Companies:  len(r.Companies),
		}
	}
	return sum
}
