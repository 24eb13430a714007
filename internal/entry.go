// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/recipes/internal/api"
	"github.com/starford/recipes/internal/mcpserver"
	"github.com/starford/recipes/internal/metrics"
	"github.com/starford/recipes/internal/recipeservice"
	"github.com/starford/recipes/internal/store"
)

// Run starts the HTTP service with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	cfg := app.config

	level := new(slog.LevelVar)
	level.Set(cfg.App.LogLevel)
	logger := newLogger(os.Stdout, level)
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()),
		slog.Bool("legacy_not_found_status", cfg.App.HTTP.LegacyNotFoundStatus))

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	svc := recipeservice.NewService(db)
	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           newRootRouter(svc, db, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the config file for log level changes.
	if cfg.Reload.Enabled && app.configPath != "" {
		g.Go(func() error {
			if err := watchConfig(gCtx, app.configPath, level, logger); err != nil {
				logger.Warn("config watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
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
		defer signal.Stop(quit)

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

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the errgroup context once the server has been shut
// down so the remaining goroutines (config watcher) exit too.
var errShutdown = errors.New("shutdown")

// InitDB applies the schema and exits.
func InitDB(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	logger := newLogger(os.Stdout, levelOf(app.config.App.LogLevel))

	db, err := openStore(ctx, app.config)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Schema initialized", slog.String("sqlite_path", app.config.SQLite.Path))
	return nil
}

// RunMCP serves the recipe tools over MCP stdio. Logs go to stderr because
// stdout carries the protocol.
func RunMCP(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}
	logger := newLogger(os.Stderr, levelOf(app.config.App.LogLevel))
	slog.SetDefault(logger)

	db, err := openStore(ctx, app.config)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("MCP server starting", slog.String("sqlite_path", app.config.SQLite.Path))
	srv := mcpserver.New(recipeservice.NewService(db), app.version)
	if err := srv.ServeStdio(); err != nil {
		return fmt.Errorf("mcp server error: %w", err)
	}
	return nil
}

// newRootRouter builds the chi router: health, metrics and the recipe API.
func newRootRouter(svc *recipeservice.Service, db *store.DB, cfg *Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.InstrumentHandler)

	// Health check endpoints.
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			slog.Warn("readiness check failed", slog.String("error", err.Error()))
			writeStatus(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ok")
	})

	r.Handle("/metrics", metrics.Handler())

	r.Mount("/recipes", api.NewRouter(svc, cfg.App.HTTP.LegacyNotFoundStatus))

	return r
}

func openStore(ctx context.Context, cfg *Config) (*store.DB, error) {
	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	if err := db.Init(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return db, nil
}

func newLogger(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

func levelOf(l slog.Level) *slog.LevelVar {
	v := new(slog.LevelVar)
	v.Set(l)
	return v
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, `{"status":%q}`, status)
}
