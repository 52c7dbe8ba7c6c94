package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/zk/internal/api"
	"github.com/starford/zk/internal/apperr"
	"github.com/starford/zk/internal/mcpserver"
	"github.com/starford/zk/internal/service"
	"github.com/starford/zk/internal/watcher"
)

// Serve runs the HTTP API and the vault watcher until ctx is cancelled or
// SIGINT/SIGTERM arrives.
func Serve(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	logger := app.jsonLogger()
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", app.dir),
		slog.String("catalog_path", cfg.Catalog.Resolve(app.dir)),
		slog.Bool("auth_enabled", cfg.Auth.AuthEnabled()),
		slog.String("log_level", cfg.App.LogLevel.String()))

	db, err := app.openCatalog()
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := app.service(logger, db)
	if err != nil {
		return err
	}

	// Catch renames made while nothing was watching.
	if err := syncAndLog(ctx, svc, logger); errors.Is(err, apperr.ErrIndexNotFound) {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newHTTPHandler(svc, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return watcher.Watch(gCtx, app.dir, logger, func(ctx context.Context) {
			_ = syncAndLog(ctx, svc, logger)
		})
	})

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// newHTTPHandler builds the chi root router: health checks unauthenticated,
// the zk API under /api.
func newHTTPHandler(svc *service.Service, cfg *Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if ok, err := svc.Ready(r.Context()); err != nil || !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"no index"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token))

	return r
}

func syncAndLog(ctx context.Context, svc *service.Service, logger *slog.Logger) error {
	renames, err := svc.Sync(ctx)
	for _, r := range renames {
		logger.Info("zettel renamed",
			slog.String("uuid", r.ID), slog.String("from", r.From), slog.String("to", r.To))
	}
	if err != nil {
		logger.Warn("sync failed", slog.String("error", err.Error()))
	}
	return err
}

// Watch reconciles the vault whenever its notes change and prints rename
// lines as they are detected.
func Watch(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.textLogger()

	svc, err := app.service(logger, nil)
	if err != nil {
		return err
	}

	renames, err := svc.Sync(ctx)
	printRenames(app.stdout, renames)
	if errors.Is(err, apperr.ErrIndexNotFound) {
		return err
	}
	if err != nil {
		logger.Warn("sync failed", slog.String("error", err.Error()))
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return watcher.Watch(ctx, app.dir, logger, func(ctx context.Context) {
		renames, err := svc.Sync(ctx)
		printRenames(app.stdout, renames)
		if err != nil {
			logger.Warn("sync failed", slog.String("error", err.Error()))
		}
	})
}

// MCP serves the zk tools over stdio.
func MCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	logger := app.textLogger()

	db, err := app.openCatalog()
	if err != nil {
		return err
	}
	defer db.Close()

	svc, err := app.service(logger, db)
	if err != nil {
		return err
	}

	logger.Info("MCP server starting on stdio", slog.String("vault_path", app.dir))
	return mcpserver.New(svc, Version).ServeStdio()
}
