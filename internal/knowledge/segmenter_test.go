package knowledge

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

const socialDoc = `Content & Social Media
Persona document for marketing teams. This preamble is not a task.

TASK: Generate social media posts, captions & hooks
5 Variants:
Write Instagram captions
Create viral hooks for reels
5 Adjacent Terms:
engagement rate
hook retention
SECTION 1 — Problems:
Posts get very low reach even with daily posting
Captions feel generic and off-brand
short line
SECTION 2 — Opportunities:
Repurpose top-performing posts into carousels
SECTION 3 — Strategies:
Hook-first content framework with weekly testing
SECTION 4 — RCA Bridge:
"Low reach on posts" → engagement rate → content strategy"
"Followers not converting" → profile visit rate
Comments are mostly bots and spam accounts

TASK: Run Google and Meta ads + improve ROI
5 Variants:
Optimize paid campaigns
5 Adjacent Terms:
ROAS
SECTION 1 — Problems:
Cost per lead keeps rising every single month
SECTION 2 — Opportunities:
Shift budget to the best converting audiences
SECTION 3 — Strategies:
Weekly creative rotation
SECTION 4 — RCA Bridge:
"High CPC on search ads" → cost per click → keyword targeting

TASK: Build a content calendar
Just some notes without any sub-section headers.
`

func TestSegment_BlocksInDocumentOrder(t *testing.T) {
	blocks := Segment(socialDoc)

	want := []string{
		"Generate social media posts, captions & hooks",
		"Run Google and Meta ads + improve ROI",
		"Build a content calendar",
	}
	if len(blocks) != len(want) {
		t.Fatalf("got %d blocks, want %d", len(blocks), len(want))
	}
	for i, name := range want {
		if blocks[i].TaskName != name {
			t.Errorf("block %d name = %q, want %q", i, blocks[i].TaskName, name)
		}
	}
}

func TestSegment_SubSections(t *testing.T) {
	b := Segment(socialDoc)[0]

	checks := []struct {
		field string
		got   string
		want  string
	}{
		{"variants", b.VariantPhrases, "Write Instagram captions\nCreate viral hooks for reels"},
		{"adjacent", b.AdjacentTerms, "engagement rate\nhook retention"},
		{"problems", b.Problems, "Posts get very low reach even with daily posting\nCaptions feel generic and off-brand\nshort line"},
		{"opportunities", b.Opportunities, "Repurpose top-performing posts into carousels"},
		{"strategies", b.Strategies, "Hook-first content framework with weekly testing"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}
	if !strings.HasPrefix(b.DiagnosticBridge, `"Low reach on posts"`) {
		t.Errorf("bridge = %q", b.DiagnosticBridge)
	}
	if strings.Contains(b.DiagnosticBridge, "TASK:") {
		t.Error("bridge leaked into the next block")
	}
	if !strings.HasPrefix(b.RawBlock, "TASK: Generate social media posts") {
		t.Errorf("raw block starts with %q", b.RawBlock[:20])
	}
}

func TestSegment_NoSubMarkersYieldsEmptyStrings(t *testing.T) {
	b := Segment(socialDoc)[2]

	for name, v := range map[string]string{
		"variants":      b.VariantPhrases,
		"adjacent":      b.AdjacentTerms,
		"problems":      b.Problems,
		"opportunities": b.Opportunities,
		"strategies":    b.Strategies,
		"bridge":        b.DiagnosticBridge,
	} {
		if v != "" {
			t.Errorf("%s = %q, want empty", name, v)
		}
	}
	if got := BuildSections(&b); len(got) != 0 {
		t.Errorf("BuildSections = %d sections, want 0", len(got))
	}
}

func TestSegment_MissingMarkersAreSkipped(t *testing.T) {
	doc := `TASK: Improve retention
SECTION 1 — Problems:
Customers churn after the first month of use
SECTION 4 — RCA Bridge:
"Churn spikes after onboarding" → 30-day retention → onboarding flow`

	blocks := Segment(doc)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	b := blocks[0]
	if b.VariantPhrases != "" || b.Opportunities != "" || b.Strategies != "" {
		t.Errorf("missing sections should be empty: %+v", b)
	}
	if b.Problems != "Customers churn after the first month of use" {
		t.Errorf("problems = %q", b.Problems)
	}
	if !strings.Contains(b.DiagnosticBridge, "onboarding flow") {
		t.Errorf("bridge = %q", b.DiagnosticBridge)
	}
}

func TestSegment_InlineHeaderContentAndSectionTen(t *testing.T) {
	doc := `TASK: Forecast cash flow
SECTION 1 — Problems: Cash runs out before invoices are paid
SECTION 10 is referenced here but is not a header
SECTION 2 — Opportunities:
Automate invoice reminders for overdue accounts`

	b := Segment(doc)[0]
	wantProblems := "Cash runs out before invoices are paid\nSECTION 10 is referenced here but is not a header"
	if b.Problems != wantProblems {
		t.Errorf("problems = %q, want %q", b.Problems, wantProblems)
	}
	if b.Opportunities != "Automate invoice reminders for overdue accounts" {
		t.Errorf("opportunities = %q", b.Opportunities)
	}
}

func TestSegment_MarkersOnlyMoveForward(t *testing.T) {
	doc := `TASK: Hire faster
SECTION 2 — Opportunities:
Use structured scorecards for every interview
5 Variants:
this line is opportunity content, not a variants header`

	b := Segment(doc)[0]
	if b.VariantPhrases != "" {
		t.Errorf("variants = %q, want empty", b.VariantPhrases)
	}
	if !strings.Contains(b.Opportunities, "not a variants header") {
		t.Errorf("opportunities = %q", b.Opportunities)
	}
}

func TestSegment_DiscardsNamelessBlocks(t *testing.T) {
	doc := "TASK:\nSECTION 1 — Problems:\nSomething that is long enough\nTASK: Real task\n"
	blocks := Segment(doc)
	if len(blocks) != 1 || blocks[0].TaskName != "Real task" {
		t.Fatalf("blocks = %+v", blocks)
	}
}

func TestSegment_CRLF(t *testing.T) {
	doc := strings.ReplaceAll(socialDoc, "\n", "\r\n")
	if !reflect.DeepEqual(Segment(doc), Segment(socialDoc)) {
		t.Error("CRLF input segmented differently")
	}
}

func TestSegment_Deterministic(t *testing.T) {
	first := Segment(socialDoc)
	for i := 0; i < 5; i++ {
		if !reflect.DeepEqual(first, Segment(socialDoc)) {
			t.Fatalf("run %d differs", i)
		}
	}
}

func TestSegment_NMarkersNBlocks(t *testing.T) {
	for _, n := range []int{0, 1, 7, 40} {
		var sb strings.Builder
		sb.WriteString("preamble line\n")
		for i := 0; i < n; i++ {
			fmt.Fprintf(&sb, "TASK: Task number %d\nSECTION 1 — Problems:\nProblem text for task %d here\n", i, i)
		}
		blocks := Segment(sb.String())
		if len(blocks) != n {
			t.Errorf("n=%d: got %d blocks", n, len(blocks))
		}
		for _, b := range blocks {
			if b.TaskName == "" {
				t.Errorf("n=%d: empty task name", n)
			}
		}
	}
}

func TestSegment_EmptyInput(t *testing.T) {
	if got := Segment(""); len(got) != 0 {
		t.Errorf("Segment(\"\") = %d blocks", len(got))
	}
}
