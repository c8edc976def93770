// Package server wires the dependency graph and owns the HTTP lifecycle:
// routes, middleware order, and graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/snippet-manager/internal/ai"
	"github.com/sakif/snippet-manager/internal/auth"
	"github.com/sakif/snippet-manager/internal/config"
	"github.com/sakif/snippet-manager/internal/handler"
	"github.com/sakif/snippet-manager/internal/middleware"
	sqliteRepo "github.com/sakif/snippet-manager/internal/repository/sqlite"
	"github.com/sakif/snippet-manager/internal/service"
)

// Server owns the router and the resources that must be released on
// shutdown.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database, token/password
// services, business services, handlers, routes. Each layer receives only
// the interfaces it needs.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.cfg.JWTSecret)
	if err != nil {
		return err
	}

	passwords := auth.NewPasswordService()
	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	snippetService := service.NewSnippetService(s.db, s.logger)

	var github *auth.GitHubProvider
	if s.cfg.GitHubClientID != "" && s.cfg.GitHubClientSecret != "" {
		callback := s.cfg.GitHubCallbackURL
		if callback == "" {
			callback = fmt.Sprintf("http://localhost:%d/auth/github/callback", s.cfg.Port)
		}
		github = auth.NewGitHubProvider(s.cfg.GitHubClientID, s.cfg.GitHubClientSecret, callback)
	}

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)

	var aiHandler *handler.AIHandler
	if s.cfg.OpenAIAPIKey != "" {
		client, err := ai.NewOpenAIClient(s.cfg.OpenAIAPIKey, s.cfg.OpenAIModel, s.cfg.AITimeout)
		if err != nil {
			return err
		}
		assistant := ai.NewAssistant(client, s.logger, s.cfg.AIMaxAttempts, s.cfg.AIRetryBaseDelay)
		aiHandler = handler.NewAIHandler(assistant, s.logger)
	} else {
		s.logger.Warn("OPENAI_API_KEY not set, AI endpoints are disabled")
	}

	// Global middleware, in order: request ID, real IP, logging, panic
	// recovery. Recovery runs innermost so the logger still records the 500.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Recover(s.logger))

	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if github != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		// Everything below requires a bearer token. The guard runs before
		// validation or any service work.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/auth/me", authHandler.HandleMe)

			r.Route("/snippets", func(r chi.Router) {
				r.Get("/", snippetHandler.HandleList)
				r.Post("/", snippetHandler.HandleCreate)
				r.Get("/{id}", snippetHandler.HandleGetByID)
				r.Put("/{id}", snippetHandler.HandleUpdate)
				r.Delete("/{id}", snippetHandler.HandleDelete)
			})

			if aiHandler != nil {
				r.Route("/ai", func(r chi.Router) {
					r.Post("/suggest-tags", aiHandler.HandleSuggestTags)
					r.Post("/explain-code", aiHandler.HandleExplainCode)
					r.Post("/generate-description", aiHandler.HandleGenerateDescription)
				})
			}
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("database", s.cfg.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
