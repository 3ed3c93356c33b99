package knowledge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()

	if n := len(c.Entries()); n != 22 {
		t.Errorf("entries = %d, want 22", n)
	}
	if n := len(c.Documents()); n != 18 {
		t.Errorf("documents = %d, want 18", n)
	}
}

func TestCatalog_Resolve(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		name    string
		domain  string
		wantKey string
		wantDoc string
		wantOK  bool
	}{
		{"exact", "Content & Social Media", "content & social media", "Content & Social Media.docx", true},
		{"alias", "Repeate Sales", "repeate sales", "Same User More Sale_.docx", true},
		{"key inside domain", "Paid Media & Ads (performance)", "paid media & ads", "Paid Media & Ads.docx", true},
		{"domain inside key", "seo", "seo & organic visibility", "SEO & Organic Visibility.docx", true},
		{"unknown", "astrology", "", "", false},
		{"blank", "  ", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, doc, ok := c.Resolve(tt.domain)
			if ok != tt.wantOK || key != tt.wantKey || doc != tt.wantDoc {
				t.Errorf("Resolve(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.domain, key, doc, ok, tt.wantKey, tt.wantDoc, tt.wantOK)
			}
		})
	}
}

func TestNewCatalog_Validation(t *testing.T) {
	tests := []struct {
		name    string
		entries []CatalogEntry
	}{
		{"empty key", []CatalogEntry{{Key: " ", Document: "a.txt"}}},
		{"empty document", []CatalogEntry{{Key: "a", Document: ""}}},
		{"duplicate after normalization", []CatalogEntry{{Key: "Sales", Document: "a.txt"}, {Key: " sales ", Document: "b.txt"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewCatalog(tt.entries); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "domains.yaml")
	manifest := `domains:
  - key: Content & Social Media
    document: social.md
  - key: social content
    document: social.md
  - key: paid media & ads
    document: ads.txt
`
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	entries := c.Entries()
	if len(entries) != 3 || entries[0].Key != "content & social media" {
		t.Errorf("entries = %+v", entries)
	}
	if docs := c.Documents(); len(docs) != 2 || docs[0] != "social.md" || docs[1] != "ads.txt" {
		t.Errorf("documents = %v", docs)
	}
}

func TestLoadCatalog_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadCatalog(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("domains: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(empty); err == nil {
		t.Error("expected error for manifest without domains")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("domains: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(bad); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestCatalog_Restrict(t *testing.T) {
	c, err := NewCatalog([]CatalogEntry{
		{Key: "alpha", Document: "a.txt"},
		{Key: "beta", Document: "b.txt"},
		{Key: "beta alias", Document: "b.txt"},
		{Key: "gamma", Document: "c.txt"},
	})
	if err != nil {
		t.Fatal(err)
	}

	restricted, missing := c.Restrict([]string{"a.txt", "c.txt"})
	if len(missing) != 1 || missing[0] != "b.txt" {
		t.Errorf("missing = %v, want [b.txt]", missing)
	}
	if n := len(restricted.Entries()); n != 2 {
		t.Errorf("restricted entries = %d, want 2", n)
	}
	for _, d := range []string{"beta", "beta alias"} {
		if key, _, ok := restricted.Resolve(d); ok {
			t.Errorf("Resolve(%q) = %q, dropped keys should not resolve", d, key)
		}
	}
}

func TestCatalog_ResolvePrefersLongestContainedKey(t *testing.T) {
	c, err := NewCatalog([]CatalogEntry{
		{Key: "a", Document: "a.txt"},
		{Key: "sales", Document: "sales.txt"},
		{Key: "sales automation", Document: "automation.txt"},
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		domain  string
		wantKey string
	}{
		{"sales automation tools", "sales automation"},
		{"b alias", "a"},
		{"inside sales team", "sales"},
		{"tion", "sales automation"},
	}
	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			key, _, ok := c.Resolve(tt.domain)
			if !ok || key != tt.wantKey {
				t.Errorf("Resolve(%q) = %q, %v, want %q", tt.domain, key, ok, tt.wantKey)
			}
		})
	}
}
