package main

import (
	"context"
	"fmt"

	"github.com/vishaltiwari230996/life-sorter/internal/adapters/docsource"
	"github.com/vishaltiwari230996/life-sorter/internal/adapters/llm"
	firestorestore "github.com/vishaltiwari230996/life-sorter/internal/adapters/storage/firestore"
	memstore "github.com/vishaltiwari230996/life-sorter/internal/adapters/storage/memory"
	sqlitestore "github.com/vishaltiwari230996/life-sorter/internal/adapters/storage/sqlite"
	"github.com/vishaltiwari230996/life-sorter/internal/config"
	"github.com/vishaltiwari230996/life-sorter/internal/domain"
	"github.com/vishaltiwari230996/life-sorter/internal/knowledge"
	"github.com/vishaltiwari230996/life-sorter/internal/observability"
)

// loadConfig reads the environment and applies the global flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if docsDir != "" {
		cfg.DocsDir = docsDir
	}
	if manifestPath != "" {
		cfg.DomainManifest = manifestPath
	}
	observability.Init(cfg.LogLevel)
	return cfg, nil
}

// buildCache wires the document source and the domain catalog. Catalog
// entries whose document is not in the docs directory are dropped.
func buildCache(ctx context.Context, cfg *config.Config) (*knowledge.Cache, error) {
	log := observability.LoggerFromContext(ctx)
	src := docsource.NewFS(cfg.DocsDir)

	catalog := knowledge.DefaultCatalog()
	if cfg.DomainManifest != "" {
		c, err := knowledge.LoadCatalog(cfg.DomainManifest)
		if err != nil {
			return nil, err
		}
		catalog = c
	}

	available, err := src.Documents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list persona documents: %w", err)
	}
	catalog, missing := catalog.Restrict(available)
	for _, doc := range missing {
		log.Warn("persona document not found", "document", doc, "dir", src.Dir())
	}

	log.Info("domain catalog ready",
		"domains", len(catalog.Entries()),
		"documents", len(catalog.Documents()),
		"missing", len(missing),
	)
	return knowledge.NewCache(catalog, src), nil
}

func buildRecommender(ctx context.Context, cfg *config.Config) (domain.Recommender, error) {
	log := observability.LoggerFromContext(ctx)

	if cfg.UseMockLLM {
		log.Info("using mock recommender")
		return llm.NewMockRecommender(), nil
	}

	log.Info("using vertex recommender", "project", cfg.GCPProjectID, "model", cfg.ModelName)
	rec, err := llm.NewVertexRecommender(ctx, llm.VertexConfig{
		Project:   cfg.GCPProjectID,
		Location:  cfg.GCPLocation,
		ModelName: cfg.ModelName,
	})
	if err != nil {
		return nil, fmt.Errorf("init vertex recommender: %w", err)
	}
	return rec, nil
}

func noClose() error { return nil }

// buildArchive returns the configured archive backend and its close func.
// The "none" backend returns a nil archive.
func buildArchive(ctx context.Context, cfg *config.Config) (domain.SessionArchive, func() error, error) {
	log := observability.LoggerFromContext(ctx)

	switch cfg.ArchiveBackend {
	case config.ArchiveSQLite:
		log.Info("using sqlite archive", "path", cfg.SQLitePath)
		store, err := sqlitestore.NewArchiveStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("init sqlite archive: %w", err)
		}
		return store, store.Close, nil

	case config.ArchiveFirestore:
		log.Info("using firestore archive", "project", cfg.GCPProjectID)
		store, err := firestorestore.NewArchiveStore(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("init firestore archive: %w", err)
		}
		return store, store.Close, nil

	case config.ArchiveNone:
		log.Info("session archive disabled")
		return nil, noClose, nil

	default:
		log.Info("using in-memory archive")
		return memstore.NewArchiveStore(), noClose, nil
	}
}
