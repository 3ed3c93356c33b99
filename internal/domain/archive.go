package domain

import "time"

// ArchivedSession is the long-term record of a completed interview.
type ArchivedSession struct {
	SessionID    SessionID `json:"session_id"`
	Outcome      string    `json:"outcome"`
	OutcomeLabel string    `json:"outcome_label"`
	Domain       string    `json:"domain"`
	Task         string    `json:"task"`
	MatchedTask  string    `json:"matched_task"`

	Answers         []QuestionAnswer  `json:"answers"`
	Recommendations RecommendationSet `json:"recommendations"`

	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}

// NewArchivedSession builds the archive record for a completed session.
func NewArchivedSession(s *Session) *ArchivedSession {
	rec := &ArchivedSession{
		SessionID:    s.ID,
		Outcome:      s.Outcome,
		OutcomeLabel: s.OutcomeLabel,
		Domain:       s.Domain,
		Task:         s.Task,
		MatchedTask:  s.MatchedTask,
		Answers:      append([]QuestionAnswer(nil), s.AnsweredQuestions...),
		StartedAt:    s.CreatedAt,
		CompletedAt:  s.UpdatedAt,
	}
	if s.Recommendations != nil {
		rec.Recommendations = *s.Recommendations
	}
	return rec
}
