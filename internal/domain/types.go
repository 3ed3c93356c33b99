package domain

import "time"

type SessionID string

// Stage is a session's position in the interview.
type Stage string

const (
	StageOutcome          Stage = "OUTCOME"
	StageDomain           Stage = "DOMAIN"
	StageTask             Stage = "TASK"
	StageDynamicQuestions Stage = "DYNAMIC_QUESTIONS"
	StageRecommendation   Stage = "RECOMMENDATION"
	StageComplete         Stage = "COMPLETE"
)

type QuestionType string

const (
	QuestionStatic  QuestionType = "static"  // outcome, domain, task
	QuestionDynamic QuestionType = "dynamic" // generated from the task block
)

// SectionKey identifies one rendered part of a task block.
type SectionKey string

const (
	SectionProblems         SectionKey = "problems"
	SectionDiagnosticBridge SectionKey = "diagnostic_bridge"
	SectionOpportunities    SectionKey = "opportunities"
	SectionGeneric          SectionKey = "generic"
)

type Timestamp = time.Time
