package domain

import (
	"fmt"
	"time"
)

// --- Session state machine ---
//
// OUTCOME -> DOMAIN -> TASK -> DYNAMIC_QUESTIONS -> RECOMMENDATION -> COMPLETE
//
// Each transition requires its exact source stage, so a field is set at
// most once and the stage never regresses.

const (
	QuestionOutcome = "What matters most to you right now?"
	QuestionDomain  = "Which domain best matches your need?"
	QuestionTask    = "What task would you like help with?"
)

// StageOrder lists the stages in interview order.
var StageOrder = []Stage{
	StageOutcome,
	StageDomain,
	StageTask,
	StageDynamicQuestions,
	StageRecommendation,
	StageComplete,
}

// StageIndex returns the position of stage in StageOrder, or -1.
func StageIndex(stage Stage) int {
	for i, s := range StageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

func (s *Session) require(stage Stage, op string) error {
	if s.Stage != stage {
		return fmt.Errorf("%s: session %s is at %s, want %s: %w", op, s.ID, s.Stage, stage, ErrInvalidTransition)
	}
	return nil
}

func (s *Session) appendStatic(question, answer string) {
	s.AnsweredQuestions = append(s.AnsweredQuestions, QuestionAnswer{
		Question: question,
		Answer:   answer,
		Type:     QuestionStatic,
	})
}

// SetOutcome records Q1 and moves OUTCOME -> DOMAIN.
func (s *Session) SetOutcome(outcome, label string, now time.Time) error {
	if err := s.require(StageOutcome, "set outcome"); err != nil {
		return err
	}
	s.Outcome = outcome
	s.OutcomeLabel = label
	s.appendStatic(QuestionOutcome, label)
	s.Stage = StageDomain
	s.UpdatedAt = now
	return nil
}

// SetDomain records Q2 and moves DOMAIN -> TASK.
func (s *Session) SetDomain(domain string, now time.Time) error {
	if err := s.require(StageDomain, "set domain"); err != nil {
		return err
	}
	s.Domain = domain
	s.appendStatic(QuestionDomain, domain)
	s.Stage = StageTask
	s.UpdatedAt = now
	return nil
}

// SetTask records Q3, installs the dynamic questions and moves
// TASK -> DYNAMIC_QUESTIONS.
func (s *Session) SetTask(task, matchedTask string, questions []DynamicQuestion, now time.Time) error {
	if err := s.require(StageTask, "set task"); err != nil {
		return err
	}
	s.Task = task
	s.MatchedTask = matchedTask
	s.appendStatic(QuestionTask, task)

	s.DynamicQuestions = make([]DynamicQuestion, len(questions))
	for i, q := range questions {
		q.Index = i
		s.DynamicQuestions[i] = q
	}
	s.DynamicQuestionsTotal = len(questions)
	s.DynamicQuestionsAnswered = 0

	s.Stage = StageDynamicQuestions
	s.UpdatedAt = now
	return nil
}

// AddAnswer records the answer to dynamic question index. The session moves
// to RECOMMENDATION on the submission that makes answered reach total.
func (s *Session) AddAnswer(index int, answer string, now time.Time) error {
	if err := s.require(StageDynamicQuestions, "add answer"); err != nil {
		return err
	}
	if index < 0 || index >= len(s.DynamicQuestions) {
		return fmt.Errorf("add answer: index %d of %d: %w", index, len(s.DynamicQuestions), ErrInvalidIndex)
	}

	s.AnsweredQuestions = append(s.AnsweredQuestions, QuestionAnswer{
		Question: s.DynamicQuestions[index].Text(),
		Answer:   answer,
		Type:     QuestionDynamic,
	})
	s.DynamicQuestionsAnswered++

	if s.DynamicQuestionsAnswered >= s.DynamicQuestionsTotal {
		s.Stage = StageRecommendation
	}
	s.UpdatedAt = now
	return nil
}

// SetRecommendations stores the final payload and completes the session.
func (s *Session) SetRecommendations(recs RecommendationSet, now time.Time) error {
	if err := s.require(StageRecommendation, "set recommendations"); err != nil {
		return err
	}
	s.Recommendations = &recs
	s.Stage = StageComplete
	s.UpdatedAt = now
	return nil
}
