package knowledge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/vishaltiwari230996/life-sorter/internal/observability"
)

const adsDoc = `TASK: Run Google and Meta ads + improve ROI
SECTION 1 — Problems:
Cost per lead keeps rising every single month`

type fakeSource struct {
	mu    sync.Mutex
	docs  map[string]string
	fail  map[string]bool
	loads map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		docs: map[string]string{
			"social.txt": socialDoc,
			"ads.txt":    adsDoc,
			"empty.txt":  "no task markers in here",
		},
		fail:  map[string]bool{"broken.txt": true},
		loads: make(map[string]int),
	}
}

func (f *fakeSource) Load(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads[name]++
	if f.fail[name] {
		return "", errors.New("corrupt document")
	}
	text, ok := f.docs[name]
	if !ok {
		return "", errors.New("no such document")
	}
	return text, nil
}

func (f *fakeSource) Documents(context.Context) ([]string, error) {
	return []string{"social.txt", "ads.txt", "empty.txt", "broken.txt"}, nil
}

func (f *fakeSource) loadCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads[name]
}

func newTestCache(t *testing.T) (*Cache, *fakeSource) {
	t.Helper()
	catalog, err := NewCatalog([]CatalogEntry{
		{Key: "content & social media", Document: "social.txt"},
		{Key: "social content", Document: "social.txt"},
		{Key: "paid media & ads", Document: "ads.txt"},
		{Key: "empty domain", Document: "empty.txt"},
		{Key: "broken domain", Document: "broken.txt"},
	})
	if err != nil {
		t.Fatal(err)
	}
	src := newFakeSource()
	return NewCache(catalog, src), src
}

func quietContext() context.Context {
	return observability.WithLogger(context.Background(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCache_Preload(t *testing.T) {
	c, src := newTestCache(t)
	ctx := quietContext()

	stats := c.Preload(ctx)
	want := PreloadStats{Documents: 4, Failed: 1, Domains: 3, Tasks: 4}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}

	c.Preload(ctx)
	for _, doc := range []string{"social.txt", "ads.txt", "empty.txt", "broken.txt"} {
		if n := src.loadCount(doc); n != 1 {
			t.Errorf("%s loaded %d times, want 1", doc, n)
		}
	}

	domains := c.Domains()
	wantDomains := []string{"content & social media", "social content", "paid media & ads"}
	if len(domains) != len(wantDomains) {
		t.Fatalf("domains = %v, want %v", domains, wantDomains)
	}
	for i := range wantDomains {
		if domains[i] != wantDomains[i] {
			t.Errorf("domain %d = %q, want %q", i, domains[i], wantDomains[i])
		}
	}
}

func TestCache_AliasesShareBlocks(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := quietContext()
	c.Preload(ctx)

	a := c.Lookup(ctx, "Content & Social Media")
	b := c.Lookup(ctx, "social content")
	if len(a) == 0 || len(b) == 0 {
		t.Fatal("expected blocks for both aliases")
	}
	if &a[0] != &b[0] {
		t.Error("aliases should map to the same block slice")
	}
}

func TestCache_LookupContainment(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := quietContext()
	c.Preload(ctx)

	blocks := c.Lookup(ctx, "Paid Media & Ads (performance)")
	if len(blocks) != 1 || blocks[0].TaskName != "Run Google and Meta ads + improve ROI" {
		t.Errorf("blocks = %+v", blocks)
	}
}

func TestCache_LookupMisses(t *testing.T) {
	c, src := newTestCache(t)
	ctx := quietContext()
	c.Preload(ctx)

	for _, d := range []string{"astrology", "", "broken domain", "empty domain"} {
		if blocks := c.Lookup(ctx, d); blocks != nil {
			t.Errorf("Lookup(%q) = %d blocks, want nil", d, len(blocks))
		}
	}
	if n := src.loadCount("broken.txt"); n != 1 {
		t.Errorf("failed document retried: %d loads", n)
	}
}

func TestCache_LazyLoadOnce(t *testing.T) {
	c, src := newTestCache(t)
	ctx := quietContext()

	var wg sync.WaitGroup
	results := make([]int, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = len(c.Lookup(ctx, "paid media & ads"))
		}(i)
	}
	wg.Wait()

	for i, n := range results {
		if n != 1 {
			t.Errorf("goroutine %d got %d blocks, want 1", i, n)
		}
	}
	if n := src.loadCount("ads.txt"); n != 1 {
		t.Errorf("ads.txt loaded %d times, want 1", n)
	}
	if n := src.loadCount("social.txt"); n != 0 {
		t.Errorf("social.txt loaded %d times, want 0", n)
	}

	// a later preload skips documents already loaded on demand
	c.Preload(ctx)
	if n := src.loadCount("ads.txt"); n != 1 {
		t.Errorf("ads.txt reloaded by preload: %d loads", n)
	}
}

func TestCache_Tasks(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := quietContext()

	tasks := c.Tasks(ctx, "content & social media")
	want := []string{
		"Generate social media posts, captions & hooks",
		"Run Google and Meta ads + improve ROI",
		"Build a content calendar",
	}
	if len(tasks) != len(want) {
		t.Fatalf("tasks = %v", tasks)
	}
	for i := range want {
		if tasks[i] != want[i] {
			t.Errorf("task %d = %q, want %q", i, tasks[i], want[i])
		}
	}
	if got := c.DocumentFor("social content"); got != "social.txt" {
		t.Errorf("DocumentFor = %q", got)
	}
}

func TestCache_CancelledLookupKeepsDocumentLoadable(t *testing.T) {
	c, src := newTestCache(t)

	ctx, cancel := context.WithCancel(quietContext())
	cancel()

	if n := len(c.Lookup(ctx, "paid media & ads")); n != 1 {
		t.Errorf("lookup on cancelled request = %d blocks, want 1", n)
	}
	if n := len(c.Lookup(quietContext(), "paid media & ads")); n != 1 {
		t.Errorf("later lookup = %d blocks, want 1", n)
	}
	if n := src.loadCount("ads.txt"); n != 1 {
		t.Errorf("ads.txt loaded %d times, want 1", n)
	}
}

func TestCache_CancelledPreloadLeavesDocumentsUnattempted(t *testing.T) {
	c, src := newTestCache(t)

	ctx, cancel := context.WithCancel(quietContext())
	cancel()

	stats := c.Preload(ctx)
	want := PreloadStats{Documents: 4, Failed: 4}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
	if d := c.Domains(); len(d) != 0 {
		t.Errorf("domains = %v, want none", d)
	}

	blocks := c.Lookup(quietContext(), "content & social media")
	if len(blocks) != 3 {
		t.Errorf("lookup after cancelled preload = %d blocks, want 3", len(blocks))
	}
	if n := src.loadCount("social.txt"); n != 1 {
		t.Errorf("social.txt loaded %d times, want 1", n)
	}
}
