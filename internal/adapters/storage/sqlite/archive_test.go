package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vishaltiwari230996/life-sorter/internal/domain"
)

func newTestStore(t *testing.T) *ArchiveStore {
	t.Helper()
	s, err := NewArchiveStore(filepath.Join(t.TempDir(), "nested", "archive.db"))
	if err != nil {
		t.Fatalf("NewArchiveStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func record(id string, completed time.Time) *domain.ArchivedSession {
	free := true
	return &domain.ArchivedSession{
		SessionID:    domain.SessionID(id),
		Outcome:      "lead-generation",
		OutcomeLabel: "Lead Generation",
		Domain:       "Paid Media & Ads",
		Task:         "improve google ads roi",
		MatchedTask:  "Run Google and Meta ads + improve ROI",
		Answers: []domain.QuestionAnswer{
			{Question: domain.QuestionOutcome, Answer: "Lead Generation", Type: domain.QuestionStatic},
			{Question: "Cost per lead keeps rising every single month", Answer: "yes", Type: domain.QuestionDynamic},
		},
		Recommendations: domain.RecommendationSet{
			Extensions: []domain.Recommendation{{Name: "Ad Inspector", Free: &free}},
			Summary:    "Tighten targeting.",
		},
		StartedAt:   completed.Add(-5 * time.Minute),
		CompletedAt: completed,
	}
}

func TestNewArchiveStore_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")
	s, err := NewArchiveStore(path)
	if err != nil {
		t.Fatalf("NewArchiveStore: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestNewArchiveStore_Pragmas(t *testing.T) {
	s := newTestStore(t)

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"busy_timeout", "5000"},
		{"synchronous", "1"}, // NORMAL
	}
	for _, tt := range tests {
		var got string
		if err := s.db.QueryRow("PRAGMA " + tt.pragma).Scan(&got); err != nil {
			t.Fatalf("PRAGMA %s: %v", tt.pragma, err)
		}
		if got != tt.want {
			t.Errorf("%s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestArchiveStore_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"s1", "s2", "s3"} {
		if err := s.ArchiveSession(ctx, record(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("ArchiveSession(%s): %v", id, err)
		}
	}

	all, err := s.ListArchived(ctx, 0)
	if err != nil {
		t.Fatalf("ListArchived: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d records, want 3", len(all))
	}
	if all[0].SessionID != "s3" || all[2].SessionID != "s1" {
		t.Errorf("order = %s,%s,%s", all[0].SessionID, all[1].SessionID, all[2].SessionID)
	}

	got := all[0]
	if got.MatchedTask != "Run Google and Meta ads + improve ROI" || got.OutcomeLabel != "Lead Generation" {
		t.Errorf("record = %+v", got)
	}
	if len(got.Answers) != 2 || got.Answers[1].Type != domain.QuestionDynamic {
		t.Errorf("answers = %+v", got.Answers)
	}
	ext := got.Recommendations.Extensions
	if len(ext) != 1 || ext[0].Name != "Ad Inspector" || ext[0].Free == nil || !*ext[0].Free {
		t.Errorf("extensions = %+v", ext)
	}
	if !got.CompletedAt.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("completed_at = %v", got.CompletedAt)
	}

	limited, _ := s.ListArchived(ctx, 1)
	if len(limited) != 1 || limited[0].SessionID != "s3" {
		t.Errorf("limited = %+v", limited)
	}
}

func TestArchiveStore_Upsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	rec := record("s1", now)
	if err := s.ArchiveSession(ctx, rec); err != nil {
		t.Fatal(err)
	}
	rec.Recommendations.Summary = "Updated summary."
	if err := s.ArchiveSession(ctx, rec); err != nil {
		t.Fatal(err)
	}

	all, _ := s.ListArchived(ctx, 0)
	if len(all) != 1 || all[0].Recommendations.Summary != "Updated summary." {
		t.Errorf("records = %+v", all)
	}
}

func TestArchiveStore_GetArchived(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.ArchiveSession(ctx, record("s1", time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetArchived(ctx, "s1")
	if err != nil {
		t.Fatalf("GetArchived: %v", err)
	}
	if got.Task != "improve google ads roi" {
		t.Errorf("task = %q", got.Task)
	}
	if _, err := s.GetArchived(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
