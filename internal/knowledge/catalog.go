package knowledge

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// CatalogEntry maps one domain key to the document that backs it.
// Several keys may share a document.
type CatalogEntry struct {
	Key      string `yaml:"key"`
	Document string `yaml:"document"`
}

// Catalog is the domain -> document lookup table. Keys are normalized
// (lowercased, trimmed) and kept in declaration order.
type Catalog struct {
	entries []CatalogEntry
	byKey   map[string]string
}

type manifest struct {
	Domains []CatalogEntry `yaml:"domains"`
}

var defaultEntries = []CatalogEntry{
	{"content & social media", "Content & Social Media.docx"},
	{"seo & organic visibility", "SEO & Organic Visibility.docx"},
	{"paid media & ads", "Paid Media & Ads.docx"},
	{"b2b lead generation", "B2B Lead Generation.docx"},
	{"sales execution & enablement", "Sales Execution & Enablement.docx"},
	{"lead management & conversion", "Lead Management & Conversion.docx"},
	{"customer success & reputation", "Customer Success & Reputation.docx"},
	{"repeat sales", "Same User More Sale_.docx"},
	{"repeate sales", "Same User More Sale_.docx"},
	{"business intelligence & analytics", "Business Intelligence & Analytics.docx"},
	{"market strategy & innovation", "Market Strategy & Innovation.docx"},
	{"financial health & risk", "Financial Health & Risk.docx"},
	{"org efficiency & hiring", "Org Efficiency & Hiring.docx"},
	{"improve yourself", "Owner_ Founder Improvements.docx"},
	{"sales & content automation", "Marketing  & Sales Automation.docx"},
	{"finance legal & admin", "Finance Legal & Admin.docx"},
	{"customer support ops", "Customer Support Ops.docx"},
	{"recruiting & hr ops", "Recruiting & HR Ops.docx"},
	{"personal & team productivity", "Personal & Team Productivity.docx"},
	{"marketing & sales automation", "Marketing  & Sales Automation.docx"},
	{"owner/founder improvements", "Owner_ Founder Improvements.docx"},
	{"same user more sale", "Same User More Sale_.docx"},
}

// DefaultCatalog returns the built-in domain table.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(defaultEntries)
	if err != nil {
		panic(fmt.Sprintf("knowledge: invalid default catalog: %v", err))
	}
	return c
}

// NewCatalog validates and normalizes entries.
func NewCatalog(entries []CatalogEntry) (*Catalog, error) {
	c := &Catalog{byKey: make(map[string]string, len(entries))}
	for i, e := range entries {
		key := normalize(e.Key)
		doc := strings.TrimSpace(e.Document)
		if key == "" {
			return nil, fmt.Errorf("catalog entry %d: empty domain key", i)
		}
		if doc == "" {
			return nil, fmt.Errorf("catalog entry %q: empty document name", key)
		}
		if _, dup := c.byKey[key]; dup {
			return nil, fmt.Errorf("catalog entry %q: duplicate domain key", key)
		}
		c.byKey[key] = doc
		c.entries = append(c.entries, CatalogEntry{Key: key, Document: doc})
	}
	return c, nil
}

// LoadCatalog reads a YAML manifest of the form
//
//	domains:
//	  - key: content & social media
//	    document: Content & Social Media.docx
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read domain manifest: %w", err)
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse domain manifest %s: %w", path, err)
	}
	if len(m.Domains) == 0 {
		return nil, fmt.Errorf("domain manifest %s declares no domains", path)
	}
	return NewCatalog(m.Domains)
}

// Entries returns the catalog in declaration order.
func (c *Catalog) Entries() []CatalogEntry {
	return append([]CatalogEntry(nil), c.entries...)
}

// Documents returns each distinct document once, in first-seen order.
func (c *Catalog) Documents() []string {
	seen := make(map[string]bool)
	var docs []string
	for _, e := range c.entries {
		if !seen[e.Document] {
			seen[e.Document] = true
			docs = append(docs, e.Document)
		}
	}
	return docs
}

// Resolve finds the document for a domain: exact key first, then
// containment (see matchContaining).
func (c *Catalog) Resolve(domainName string) (key, document string, ok bool) {
	d := normalize(domainName)
	if d == "" {
		return "", "", false
	}
	if doc, found := c.byKey[d]; found {
		return d, doc, true
	}
	if e, found := matchContaining(d, c.entries, nil); found {
		return e.Key, e.Document, true
	}
	return "", "", false
}

// matchContaining picks the longest key contained in d, so a short key
// cannot shadow a more specific one. Failing that it picks the first key,
// in declaration order, that contains d. keep filters candidates; nil keeps
// all of them.
func matchContaining(d string, entries []CatalogEntry, keep func(key string) bool) (CatalogEntry, bool) {
	var (
		best      CatalogEntry
		found     bool
		container CatalogEntry
		contained bool
	)
	for _, e := range entries {
		if keep != nil && !keep(e.Key) {
			continue
		}
		if strings.Contains(d, e.Key) {
			if !found || len(e.Key) > len(best.Key) {
				best, found = e, true
			}
			continue
		}
		if !contained && strings.Contains(e.Key, d) {
			container, contained = e, true
		}
	}
	if found {
		return best, true
	}
	return container, contained
}

// Restrict drops entries whose document is not in available and reports the
// missing documents, so unknown domains surface as absent at startup.
func (c *Catalog) Restrict(available []string) (*Catalog, []string) {
	have := make(map[string]bool, len(available))
	for _, name := range available {
		have[name] = true
	}

	out := &Catalog{byKey: make(map[string]string)}
	var missing []string
	reported := make(map[string]bool)
	for _, e := range c.entries {
		if !have[e.Document] {
			if !reported[e.Document] {
				reported[e.Document] = true
				missing = append(missing, e.Document)
			}
			continue
		}
		out.byKey[e.Key] = e.Document
		out.entries = append(out.entries, e)
	}
	return out, missing
}
