package domain

import "fmt"

// QuestionAnswer is one entry of the interview transcript.
type QuestionAnswer struct {
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	Type     QuestionType `json:"type"`
}

// DynamicQuestion is a follow-up question generated after the task is set.
// Document-backed questions carry one section item each; generic fallback
// questions carry a prompt and options only.
type DynamicQuestion struct {
	Index          int         `json:"index"`
	Section        SectionKey  `json:"section"`
	SectionLabel   string      `json:"section_label"`
	Prompt         string      `json:"prompt"`
	Item           string      `json:"item,omitempty"`
	Options        []string    `json:"options,omitempty"`
	AllowsFreeText bool        `json:"allows_free_text"`
	Bridge         *BridgeItem `json:"bridge,omitempty"`
}

// Text is the question as recorded in the transcript.
func (q DynamicQuestion) Text() string {
	if q.Item != "" {
		return q.Item
	}
	return q.Prompt
}

// Recommendation is an opaque record produced by the recommender.
type Recommendation struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	URL            string `json:"url,omitempty"`
	Category       string `json:"category"`
	Free           *bool  `json:"free,omitempty"`
	Rating         string `json:"rating,omitempty"`
	WhyRecommended string `json:"why_recommended"`
}

type RecommendationSet struct {
	Extensions []Recommendation `json:"extensions"`
	GPTs       []Recommendation `json:"gpts"`
	Companies  []Recommendation `json:"companies"`
	Summary    string           `json:"summary"`
}

// Session is one user's interview. It is owned by the session store;
// every mutation goes through the transition methods in stage.go.
type Session struct {
	ID    SessionID
	Stage Stage

	Outcome      string
	OutcomeLabel string
	Domain       string
	Task         string

	// Set together with Task.
	MatchedTask  string
	DocumentName string

	AnsweredQuestions []QuestionAnswer
	DynamicQuestions  []DynamicQuestion

	DynamicQuestionsTotal    int
	DynamicQuestionsAnswered int

	Recommendations *RecommendationSet

	CreatedAt Timestamp
	UpdatedAt Timestamp
}

// Progress renders the dynamic question counters as "answered/total".
func (s *Session) Progress() string {
	return fmt.Sprintf("%d/%d", s.DynamicQuestionsAnswered, s.DynamicQuestionsTotal)
}

// Clone returns a deep copy, so callers can read it without racing the store.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.AnsweredQuestions = append([]QuestionAnswer(nil), s.AnsweredQuestions...)
	if s.DynamicQuestions != nil {
		out.DynamicQuestions = make([]DynamicQuestion, len(s.DynamicQuestions))
		for i, q := range s.DynamicQuestions {
			q.Options = append([]string(nil), q.Options...)
			if q.Bridge != nil {
				b := *q.Bridge
				q.Bridge = &b
			}
			out.DynamicQuestions[i] = q
		}
	}
	if s.Recommendations != nil {
		recs := RecommendationSet{
			Extensions: append([]Recommendation(nil), s.Recommendations.Extensions...),
			GPTs:       append([]Recommendation(nil), s.Recommendations.GPTs...),
			Companies:  append([]Recommendation(nil), s.Recommendations.Companies...),
			Summary:    s.Recommendations.Summary,
		}
		out.Recommendations = &recs
	}
	return &out
}
