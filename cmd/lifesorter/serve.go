package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpadapter "github.com/vishaltiwari230996/life-sorter/internal/adapters/http"
	memstore "github.com/vishaltiwari230996/life-sorter/internal/adapters/storage/memory"
	"github.com/vishaltiwari230996/life-sorter/internal/app/archive"
	"github.com/vishaltiwari230996/life-sorter/internal/app/diagnostic"
	"github.com/vishaltiwari230996/life-sorter/internal/observability"
)

var port int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the diagnostic API server",
	Long:  `Preloads every persona document and serves the interview API over HTTP.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides LIFESORTER_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Port = port
	}

	logger := observability.Logger()
	ctx := observability.WithLogger(cmd.Context(), logger)
	logger.Info("starting life-sorter", "mode", cfg.Mode, "docs_dir", cfg.DocsDir)

	cache, err := buildCache(ctx, cfg)
	if err != nil {
		return err
	}
	recommender, err := buildRecommender(ctx, cfg)
	if err != nil {
		return err
	}
	archiveStore, closeArchive, err := buildArchive(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeArchive(); err != nil {
			logger.Error("failed to close archive", "error", err)
		}
	}()

	svc := diagnostic.NewService(
		cache,
		memstore.NewSessionStore(cfg.MaxSessions),
		recommender,
		archive.NewService(archiveStore),
	)

	stats := svc.Preload(ctx)
	logger.Info("persona documents preloaded",
		"documents", stats.Documents,
		"failed", stats.Failed,
		"domains", stats.Domains,
		"tasks", stats.Tasks,
	)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      httpadapter.NewRouter(svc, cfg.APIKey, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("life-sorter api listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", "error", err)
			return err
		}
		return nil
	case <-done:
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
