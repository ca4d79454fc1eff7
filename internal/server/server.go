// Package server wires the dependency graph and runs the HTTP server.
//
// COMPOSITION ROOT:
// New() assembles everything in one place:
//
//	sqlite.DB → IdentityService / SnipService → graph.Graph → handlers
//	TokenService ──┘ (also feeds the identity-context middleware)
//
// Each layer receives only what it needs; handlers never touch the
// database, services never touch HTTP.
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

	"github.com/sakif/snipshare/internal/auth"
	"github.com/sakif/snipshare/internal/graph"
	"github.com/sakif/snipshare/internal/handler"
	"github.com/sakif/snipshare/internal/middleware"
	sqliteRepo "github.com/sakif/snipshare/internal/repository/sqlite"
	"github.com/sakif/snipshare/internal/service"
)

// Config holds server configuration, loaded from the environment in
// cmd/server/main.go.
type Config struct {
	Port   int
	DBPath string

	// JWTSecret signs identity tokens. When empty, main generates a
	// random per-process secret — tokens then die with the process.
	JWTSecret string

	// GitHub OAuth app credentials. When empty, the /auth/github routes
	// are not registered and password auth is the only sign-in path.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the resources that need closing on shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server and wires the full dependency graph.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and routes.
//
// ROUTES:
//
//	POST /graphql               → the entire query/mutation surface
//	GET  /auth/github/login     → start GitHub OAuth (if configured)
//	GET  /auth/github/callback  → finish GitHub OAuth (if configured)
//	GET  /healthz               → liveness probe
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	identityService := service.NewIdentityService(s.db.Identities, tokens, passwords, s.logger)
	snipService := service.NewSnipService(s.db.Snips, s.db.Identities, s.logger)

	g, err := graph.New(identityService, snipService, s.logger)
	if err != nil {
		return fmt.Errorf("building schema: %w", err)
	}
	graphqlHandler := handler.NewGraphQLHandler(g, s.logger)

	// Global middleware, in order: request ID, real IP, panic recovery,
	// request logging, then token → identity context resolution.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(auth.ContextMiddleware(tokens))

	s.router.Post("/graphql", graphqlHandler.HandleQuery)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if s.config.GitHubClientID != "" && s.config.GitHubClientSecret != "" {
		provider := auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
		authHandler := handler.NewAuthHandler(provider, identityService, s.logger)
		s.router.Get("/auth/github/login", authHandler.HandleLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleCallback)
	} else {
		s.logger.Info("GitHub OAuth not configured — password auth only")
	}

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests (30s),
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
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
