package firestore

import (
	"reflect"
	"testing"
	"time"

	"github.com/vishaltiwari230996/life-sorter/internal/domain"
)

func TestDocConversion(t *testing.T) {
	free := false
	rec := &domain.ArchivedSession{
		SessionID:    "abc",
		Outcome:      "save-time",
		OutcomeLabel: "Save Time",
		Domain:       "Customer Support Ops",
		Task:         "automate ticket triage",
		MatchedTask:  "Automate ticket triage and routing",
		Answers: []domain.QuestionAnswer{
			{Question: domain.QuestionTask, Answer: "automate ticket triage", Type: domain.QuestionStatic},
			{Question: "Tickets wait hours before first response", Answer: "yes", Type: domain.QuestionDynamic},
		},
		Recommendations: domain.RecommendationSet{
			Extensions: []domain.Recommendation{},
			GPTs:       []domain.Recommendation{{Name: "Triage GPT", Category: "support", Free: &free}},
			Companies:  []domain.Recommendation{{Name: "HelpDeskCo", URL: "https://example.com"}},
			Summary:    "Route by intent.",
		},
		StartedAt:   time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
		CompletedAt: time.Date(2025, 2, 1, 9, 7, 0, 0, time.UTC),
	}

	got := fromDoc("abc", toDoc(rec))
	if !reflect.DeepEqual(got, rec) {
		t.Errorf("fromDoc(toDoc(rec)) =\n%+v\nwant\n%+v", got, rec)
	}
}
