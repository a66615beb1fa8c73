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

	"github.com/starford/ansuz/internal/api"
	"github.com/starford/ansuz/internal/chat"
	"github.com/starford/ansuz/internal/faq"
	"github.com/starford/ansuz/internal/faqservice"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/sse"
)

// sseNotifier routes engine toasts to connected SSE clients.
type sseNotifier struct {
	broker *sse.Broker
	logger *slog.Logger
}

func (n *sseNotifier) Notify(title, description string, isError bool) {
	n.logger.Debug("toast", slog.String("title", title), slog.Bool("is_error", isError))
	n.broker.PublishToast(title, description, isError)
}

// logEscalator simulates the specialist-contact hook.
type logEscalator struct {
	logger *slog.Logger
}

func (e *logEscalator) ContactSpecialist(sessionID string) {
	e.logger.Info("specialist contact requested", slog.String("session_id", sessionID))
}

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("corpus_path", cfg.Corpus.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Load and validate the corpus.
	corpus, err := faq.LoadFile(cfg.Corpus.Path)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	logger.Info("Corpus loaded",
		slog.Int("records", corpus.Len()),
		slog.String("version", corpus.Version()))

	// Initialize SQLite browse-search index.
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	svc, err := faqservice.NewService(corpus, db)
	if err != nil {
		return fmt.Errorf("init faq service: %w", err)
	}

	// MCP mode: serve tools over stdio instead of HTTP.
	if app.mcpMode {
		logger.Info("Starting MCP stdio server")
		return mcpserver.New(svc).ServeStdio()
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Session manager with SSE-backed capabilities.
	mgr := chat.NewManager(svc.Corpus,
		chat.WithReplyDelay(cfg.Chat.ReplyDelay()),
		chat.WithNotifier(&sseNotifier{broker: broker, logger: logger}),
		chat.WithEscalator(&logEscalator{logger: logger}),
		chat.WithReplySink(func(sessionID string, m chat.Message) {
			broker.PublishChatMessage(sessionID, m)
		}),
	)
	defer mgr.CloseAll()

	// Build API router.
	apiRouter := api.NewRouter(svc, mgr, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
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
		_, _ = fmt.Fprintf(w, `{"status":"ok","corpus_version":%q}`, svc.Corpus().Version())
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start corpus watcher for hot reload.
	if cfg.Corpus.Watch {
		g.Go(func() error {
			return index.Watch(gCtx, cfg.Corpus.Path, logger, func() {
				changed, reloadErr := svc.Reload(cfg.Corpus.Path)
				if reloadErr != nil {
					logger.Warn("corpus reload failed; keeping previous corpus",
						slog.String("error", reloadErr.Error()))
					return
				}
				if !changed {
					return
				}
				version := svc.Corpus().Version()
				logger.Info("corpus reloaded", slog.String("version", version))
				broker.PublishCorpusUpdated(version)
			})
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
