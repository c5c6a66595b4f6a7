// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/mannaz/internal/api"
	"github.com/starford/mannaz/internal/granola"
	"github.com/starford/mannaz/internal/index"
	"github.com/starford/mannaz/internal/mcpserver"
	"github.com/starford/mannaz/internal/noteservice"
	"github.com/starford/mannaz/internal/people"
	"github.com/starford/mannaz/internal/sse"
	"github.com/starford/mannaz/internal/storage"
	"github.com/starford/mannaz/internal/syncer"
)

// Run starts the service with the given options: initial index sync,
// vault watcher, name map watcher, periodic Granola sync, and HTTP API.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	logger := newLogger(cfg)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("output_folder", cfg.Vault.OutputFolder),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, db, err := openVault(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// Bring the index up to date with what is already on disk.
	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial index sync failed", slog.String("error", err.Error()))
	}

	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	svc := noteservice.NewService(store, db)
	run := newSyncer(cfg, store, svc, logger, broker.PublishSyncEvent)

	apiRouter := api.NewRouter(svc, run, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Vault watcher keeps the index current and feeds SSE clients.
	g.Go(func() error {
		index.Watch(gCtx, db, store, cfg.Vault.Path, logger, func(kind, path string) {
			broker.PublishNoteEvent(kind, path)
		})
		return nil
	})

	// Name map watcher reloads the CSV when it changes on disk.
	g.Go(func() error {
		return people.Watch(gCtx, run.names, logger)
	})

	// Periodic Granola sync.
	if cfg.Granola.SyncIntervalMinutes > 0 {
		interval := time.Duration(cfg.Granola.SyncIntervalMinutes) * time.Minute
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				// Run immediately, then on every tick.
				if _, err := run.Sync(gCtx); err != nil {
					logger.Error("scheduled sync failed", slog.String("error", err.Error()))
				}
				select {
				case <-gCtx.Done():
					return nil
				case <-ticker.C:
				}
			}
		})
	}

	// HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

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

// SyncOnce runs a single sync pass and exits. Used by the sync subcommand.
func SyncOnce(ctx context.Context, cfg *Config) error {
	logger := newLogger(cfg)

	store, db, err := openVault(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := noteservice.NewService(store, db)
	run := newSyncer(cfg, store, svc, logger, nil)

	res, err := run.Sync(ctx)
	if err != nil {
		return err
	}
	logger.Info("sync finished",
		slog.Int("total", res.Total),
		slog.Int("synced", res.Synced),
		slog.Int("skipped", res.Skipped),
		slog.Int("failed", res.Failed))
	return nil
}

// ServeMCP starts the MCP stdio server. Used by the mcp subcommand.
func ServeMCP(_ context.Context, cfg *Config) error {
	// Log to stderr; stdout carries the MCP protocol.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))

	store, db, err := openVault(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := index.Sync(db, store, logger); err != nil {
		logger.Warn("initial index sync failed", slog.String("error", err.Error()))
	}

	svc := noteservice.NewService(store, db)
	run := newSyncer(cfg, store, svc, logger, nil)

	return mcpserver.New(store, db, run).ServeStdio()
}

func newLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

func openVault(cfg *Config) (storage.Provider, *index.DB, error) {
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create vault dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init index: %w", err)
	}
	return store, db, nil
}

// runner couples a Syncer with the name map it resolves against.
type runner struct {
	*syncer.Syncer
	names *people.NameMap
}

func newSyncer(cfg *Config, store storage.Provider, svc *noteservice.Service, logger *slog.Logger, notify syncer.NotifyFunc) *runner {
	names := people.NewNameMap(cfg.NameMap.Path)
	if cfg.NameMap.Path != "" {
		if err := names.Load(); err != nil {
			logger.Warn("name map load failed", slog.String("path", cfg.NameMap.Path), slog.String("error", err.Error()))
		}
	}

	client := granola.NewClient(cfg.Granola.APIURL, cfg.Granola.Token, cfg.Granola.PageLimit, logger)

	s := syncer.New(client, store, svc, names, logger, syncer.Config{
		Folder:      cfg.Vault.OutputFolder,
		Org:         cfg.Granola.CompanyName,
		PipeAliases: cfg.Granola.UsePipeAliases,
		Notify:      notify,
	})
	return &runner{Syncer: s, names: names}
}
