// CalmaLink - bilingual wellbeing chat API
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/gigicalma/calmalink/internal/api"
	"github.com/gigicalma/calmalink/internal/catalog"
	"github.com/gigicalma/calmalink/internal/classify"
	"github.com/gigicalma/calmalink/internal/compose"
	"github.com/gigicalma/calmalink/internal/config"
	"github.com/gigicalma/calmalink/internal/identity"
	"github.com/gigicalma/calmalink/internal/middleware"
	"github.com/gigicalma/calmalink/internal/responder"
	"github.com/gigicalma/calmalink/internal/store"
	"github.com/gigicalma/calmalink/internal/ws"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port,
		"default_language", cfg.DefaultLanguage,
		"model_enabled", cfg.ModelEnabled(),
		"transcripts_enabled", cfg.Transcript.Enabled)

	cat, err := catalog.Load()
	if err != nil {
		slog.Error("Failed to load practice catalog", "error", err)
		os.Exit(1)
	}
	slog.Info("Practice catalog loaded", "languages", cat.Languages())

	// Optional transcript log.
	var repo store.Repository
	if cfg.Transcript.Enabled {
		repo, err = store.NewSQLite(cfg.Transcript.DBPath)
		if err != nil {
			slog.Error("Failed to initialize transcript store", "error", err)
			os.Exit(1)
		}
		defer func() {
			if closeErr := repo.Close(); closeErr != nil {
				slog.Error("Failed to close transcript store", "error", closeErr)
			}
		}()
		if err := repo.Ping(context.Background()); err != nil {
			slog.Error("Transcript store health check failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Transcript store connected", "path", cfg.Transcript.DBPath)
	}

	// The deterministic responder always exists; the model responder is an
	// opt-in decorator around it. A missing API key disables enrichment,
	// never the service.
	classifier := classify.New(cfg.DefaultLanguage, compose.Invitations())
	composer := compose.New(cat)
	deterministic := responder.NewDeterministic(classifier, composer)

	var rsp responder.Responder = deterministic
	if cfg.ModelEnabled() {
		rsp = responder.NewModel(deterministic, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.EnrichTimeout, logger)
		slog.Info("Model enrichment enabled", "model", cfg.OpenAIModel, "timeout", cfg.EnrichTimeout)
	} else {
		slog.Info("Model enrichment disabled (OPENAI_API_KEY not set), deterministic replies only")
	}

	handler := api.NewHandler(rsp, cat, repo)
	wsHandler := ws.NewChatHandler(rsp, repo, cfg.AllowedOrigins)

	// Setup router.
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(identity.Middleware(!isLocal(cfg.AllowedOrigins)))
	r.MethodNotAllowed(api.MethodNotAllowed)

	handler.RegisterRoutes(r)
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if repo != nil {
		store.StartRetentionWorker(ctx, repo, cfg.Transcript.Retention)
	}

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

// isLocal reports whether every allowed origin is a localhost origin, in
// which case cookies are issued without the Secure flag.
func isLocal(origins []string) bool {
	for _, o := range origins {
		if !containsLocalHost(o) {
			return false
		}
	}
	return true
}

func containsLocalHost(origin string) bool {
	return origin == "*" ||
		strings.Contains(origin, "localhost") ||
		strings.Contains(origin, "127.0.0.1")
}
