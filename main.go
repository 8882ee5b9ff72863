package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"taskstate/internal/config"
	"taskstate/internal/middleware"
	"taskstate/internal/tasklist"
	"taskstate/internal/tracing"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger) // for third-party packages that use slog

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.TraceExporter, cfg.OTLPEndpoint)
	if err != nil {
		logger.Error("tracing_setup_error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := tasklist.NewStore()
	if cfg.DBPath != "" {
		journal, err := openJournal(ctx, cfg.DBPath, store)
		if err != nil {
			logger.Error("journal_open_error", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer journal.Close()
		logger.Info("journal_enabled",
			slog.String("path", cfg.DBPath),
			slog.Int("tasks", len(store.List())))
	}

	r := newRouter(store, logger, cfg)

	srv := &http.Server{Addr: cfg.Addr, Handler: r}

	go func() {
		logger.Info("server_listen", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server_error", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_error", slog.String("error", err.Error()))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing_shutdown_error", slog.String("error", err.Error()))
	}
	logger.Info("server_stopped")
}

// openJournal opens the sqlite journal, replays its actions into the store,
// and attaches it for subsequent dispatches.
func openJournal(ctx context.Context, path string, store *tasklist.Store) (*tasklist.SQLiteJournal, error) {
	dsn, err := tasklist.SQLiteFileDSN(path)
	if err != nil {
		return nil, err
	}
	journal, err := tasklist.NewSQLiteJournal(dsn)
	if err != nil {
		return nil, err
	}
	if err := journal.ApplyMigrations(ctx); err != nil {
		_ = journal.Close()
		return nil, err
	}
	actions, err := journal.Actions(ctx)
	if err != nil {
		_ = journal.Close()
		return nil, err
	}
	store.Restore(actions)
	store.UseJournal(journal)
	return journal, nil
}

// newRouter wires the health endpoint, task routes, and middleware stack
func newRouter(store *tasklist.Store, logger *slog.Logger, cfg config.Config) *chi.Mux {
	r := chi.NewRouter()

	// ---- Middleware stack (order matters a bit) ----
	// RequestID first so downstream can include it (logger, spans, etc.)
	r.Use(chimw.RequestID)

	// Panic recovery: never crash the server; returns 500 on panics
	r.Use(chimw.Recoverer)

	// Timeouts: cancel handlers that exceed this duration
	r.Use(chimw.Timeout(15 * time.Second))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"}, // e.g., []string{"https://your-frontend.example"}
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-API-Key"},
		ExposedHeaders:   []string{"Link", "X-Request-ID", "Trace-Id"},
		AllowCredentials: false,
		MaxAge:           300, // 5 minutes
	}))

	// Auth before the expensive stuff; probes stay open
	r.Use(middleware.Auth(middleware.AuthConfig{
		Mode:        middleware.ParseAuthMode(cfg.AuthMode),
		APIKey:      cfg.APIKey,
		BearerToken: cfg.BearerToken,
		SkipPaths:   []string{"/health", "/metrics"},
	}))

	r.Use(middleware.RateLimit(middleware.NewLimiter(cfg.RateRPS, cfg.RateBurst)))

	r.Use(middleware.Tracing)
	r.Use(middleware.Metrics)

	// Our structured request logger (includes req_id)
	r.Use(middleware.RequestLogger(logger))

	// ---- Routes ----

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Prometheus exposition
	r.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	// task routes (POST /tasks, GET /tasks, DELETE /tasks, DELETE /tasks/{id})
	tasklist.RegisterRoutes(r, store)

	return r
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}
