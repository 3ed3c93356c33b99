package knowledge

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/vishaltiwari230996/life-sorter/internal/domain"
	"github.com/vishaltiwari230996/life-sorter/internal/observability"
)

// Cache maps normalized domain keys to the task blocks of their document.
// It is filled once by Preload and read-only afterwards, except for
// on-demand loads of documents that were not preloaded. Returned slices are
// shared and must not be modified.
type Cache struct {
	catalog *Catalog
	source  domain.DocumentSource

	once  sync.Once
	group singleflight.Group

	mu    sync.RWMutex
	index map[string][]domain.TaskBlock // domain key -> blocks, only non-empty
	docs  map[string][]domain.TaskBlock // document -> blocks, every attempted document
}

// PreloadStats summarizes a preload run.
type PreloadStats struct {
	Documents int
	Failed    int
	Domains   int
	Tasks     int
}

func NewCache(catalog *Catalog, source domain.DocumentSource) *Cache {
	return &Cache{
		catalog: catalog,
		source:  source,
		index:   make(map[string][]domain.TaskBlock),
		docs:    make(map[string][]domain.TaskBlock),
	}
}

// Catalog returns the table the cache resolves domains with.
func (c *Cache) Catalog() *Catalog {
	return c.catalog
}

// Preload parses every catalog document once. Calls after the first are
// no-ops; concurrent callers wait for the first run to finish.
func (c *Cache) Preload(ctx context.Context) PreloadStats {
	var stats PreloadStats
	c.once.Do(func() {
		stats = c.preload(ctx)
	})
	return stats
}

func (c *Cache) preload(ctx context.Context) PreloadStats {
	log := observability.LoggerFromContext(ctx)
	var stats PreloadStats

	for _, doc := range c.catalog.Documents() {
		c.mu.RLock()
		_, done := c.docs[doc]
		c.mu.RUnlock()
		if done {
			continue
		}

		blocks, err := c.parseDocument(ctx, doc)
		stats.Documents++
		if err != nil {
			stats.Failed++
		}
		if isTransient(err) {
			// left for an on-demand load
			continue
		}
		stats.Tasks += len(blocks)
		c.install(doc, blocks)
	}

	c.mu.RLock()
	stats.Domains = len(c.index)
	c.mu.RUnlock()

	log.Info("domain documents preloaded",
		"documents", stats.Documents,
		"failed", stats.Failed,
		"domains_mapped", stats.Domains,
		"total_tasks", stats.Tasks,
	)
	return stats
}

// parseDocument loads and segments one document. Failures degrade to an
// empty block list.
func (c *Cache) parseDocument(ctx context.Context, doc string) ([]domain.TaskBlock, error) {
	log := observability.LoggerFromContext(ctx).With("document", doc)

	text, err := c.source.Load(ctx, doc)
	if err != nil {
		log.Warn("failed to load domain document", "error", err)
		return nil, err
	}

	blocks := Segment(text)
	names := make([]string, 0, len(blocks))
	for _, b := range blocks {
		names = append(names, truncate(b.TaskName, 50))
	}
	log.Info("parsed domain document", "tasks", len(blocks), "task_names", names)
	return blocks, nil
}

// install records blocks for doc and maps every alias key of doc to the
// same slice.
func (c *Cache) install(doc string, blocks []domain.TaskBlock) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.docs[doc] = blocks
	if len(blocks) == 0 {
		return
	}
	for _, e := range c.catalog.entries {
		if e.Document == doc {
			c.index[e.Key] = blocks
		}
	}
}

// Lookup returns the blocks for a domain: exact key, then substring
// containment against cached keys, then an on-demand load when the catalog
// knows the domain. It returns nil when nothing is available.
func (c *Cache) Lookup(ctx context.Context, domainName string) []domain.TaskBlock {
	d := normalize(domainName)
	if d == "" {
		return nil
	}

	if blocks := c.cached(d); blocks != nil {
		return blocks
	}

	key, doc, ok := c.catalog.Resolve(d)
	if !ok {
		return nil
	}

	c.mu.RLock()
	_, attempted := c.docs[doc]
	c.mu.RUnlock()
	if attempted {
		return c.blocksFor(key)
	}

	// The load is shared by every waiting caller, so it must not die with
	// the request that happened to start it.
	loadCtx := context.WithoutCancel(ctx)
	_, _, _ = c.group.Do(doc, func() (any, error) {
		c.mu.RLock()
		_, done := c.docs[doc]
		c.mu.RUnlock()
		if done {
			return nil, nil
		}
		blocks, err := c.parseDocument(loadCtx, doc)
		if isTransient(err) {
			return nil, err
		}
		c.install(doc, blocks)
		observability.LoggerFromContext(ctx).Info("on-demand document load",
			"domain", domainName, "document", doc, "tasks", len(blocks))
		return nil, nil
	})

	return c.blocksFor(key)
}

func (c *Cache) cached(d string) []domain.TaskBlock {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if blocks, ok := c.index[d]; ok {
		return blocks
	}
	e, ok := matchContaining(d, c.catalog.entries, func(key string) bool {
		_, cached := c.index[key]
		return cached
	})
	if !ok {
		return nil
	}
	return c.index[e.Key]
}

func (c *Cache) blocksFor(key string) []domain.TaskBlock {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index[key]
}

// DocumentFor returns the document name backing a domain, if any.
func (c *Cache) DocumentFor(domainName string) string {
	_, doc, ok := c.catalog.Resolve(domainName)
	if !ok {
		return ""
	}
	return doc
}

// Domains lists the catalog keys that currently have task blocks, in
// catalog order.
func (c *Cache) Domains() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []string
	for _, e := range c.catalog.entries {
		if _, ok := c.index[e.Key]; ok {
			out = append(out, e.Key)
		}
	}
	return out
}

// Tasks lists the task names of a domain in document order.
func (c *Cache) Tasks(ctx context.Context, domainName string) []string {
	blocks := c.Lookup(ctx, domainName)
	names := make([]string, 0, len(blocks))
	for _, b := range blocks {
		names = append(names, b.TaskName)
	}
	return names
}

// isTransient reports errors that say nothing about the document itself;
// such a document stays unattempted and is retried on the next lookup.
func isTransient(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
