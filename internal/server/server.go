// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer. It decides:
// - Which URL patterns map to which handler functions
// - Which routes sit behind the navigation guard
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
//
//	config.Config → Server.New() creates:
//	  sqlite.DB ─────────────→ auth.Sessions ─┐
//	  apiclient.Client ──────→ services ──────┴→ handlers → chi routes
//
// This is the "composition root" pattern: every dependency is built here,
// in one place, rather than scattered across the codebase.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/gitorbit/internal/apiclient"
	"github.com/sakif/gitorbit/internal/auth"
	"github.com/sakif/gitorbit/internal/config"
	"github.com/sakif/gitorbit/internal/handler"
	"github.com/sakif/gitorbit/internal/middleware"
	sqliteRepo "github.com/sakif/gitorbit/internal/repository/sqlite"
	"github.com/sakif/gitorbit/internal/service"
	"github.com/sakif/gitorbit/web"
)

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the session database. Start closes it after the HTTP
// server has drained, so no in-flight sign in loses its write.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the whole dependency graph from cfg.
//
// IMPORT ALIAS:
// repository/sqlite is imported as `sqliteRepo` to keep it apart from the
// modernc.org/sqlite driver it registers.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

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

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the session database. Start calls it once the server has
// drained; callers that only use Handler close it themselves.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
// GET       /healthz                 → liveness (JSON, no guard)
// GET       /static/*                → embedded CSS (no guard)
// GET|POST  /auth                    → sign in
// GET|POST  /signup                  → sign up
// POST      /logout                  → sign out
// GET       /                        → dashboard (?q=, ?find=, ?more=1)
// POST      /repo/{id}/star          → toggle star, dashboard
// GET|POST  /repo/create             → new repository form
// GET       /repo/{id}               → repository (?tab=code|issues)
// POST      /repo/{id}/issues        → new issue
// POST      /repo/{id}/upload        → upload a file
// GET       /repo/{id}/file          → file viewer (?path=)
// GET       /user/{id}               → profile (?tab=repositories|stars)
// POST      /user/{id}/follow        → follow / unfollow
// POST      /user/{id}/profile       → edit bio
//
// MIDDLEWARE ORDER MATTERS:
// 1. RequestID: assigns an id the request logger prints
// 2. RealIP: extracts the client IP from proxy headers
// 3. Logger: logs each request with timing info
// 4. Recoverer: turns a panic into a 500 instead of a crash
// 5. Guard (page routes only): redirects by session state
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.Get("/healthz", handler.HandleHealth)
	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(web.Static())))

	// === Session store ===
	key, err := auth.SigningKey(s.config.SessionSecret)
	if err != nil {
		return err
	}
	if s.config.SessionSecret == "" {
		s.logger.Warn("SESSION_SECRET not set: using a random key, sessions end on restart")
	}
	tokens, err := auth.NewTokenService(key)
	if err != nil {
		return err
	}
	sessions := auth.NewSessions(s.db, tokens, s.config.CookieSecure, s.logger)

	// === Backend API ===
	// One root client holds the rate limiter; every session gets a child
	// that adds its bearer token and shares that limiter.
	api := apiclient.New(apiclient.Config{
		BaseURL:       s.config.APIBaseURL,
		Timeout:       s.config.APITimeout,
		RatePerSecond: s.config.APIRateLimit,
		Burst:         s.config.APIRateBurst,
	}, s.logger)
	backend := service.Backend(func(token string) service.API { return api.WithToken(token) })

	// === Handlers ===
	renderer, err := handler.NewRenderer(web.Templates, s.logger)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	pages := handler.NewPages(renderer, sessions, s.logger)

	authHandler := handler.NewAuthHandler(pages, service.NewAuthService(backend, s.logger))
	dashHandler := handler.NewDashboardHandler(pages, service.NewDashboardService(backend, s.logger))
	repoHandler := handler.NewRepoHandler(pages, service.NewRepoService(backend, s.logger))
	profileHandler := handler.NewProfileHandler(pages, service.NewProfileService(backend, s.logger))

	s.router.Group(func(r chi.Router) {
		r.Use(auth.Guard(sessions))

		r.Get(auth.LoginPath, authHandler.ShowLogin)
		r.Post(auth.LoginPath, authHandler.Login)
		r.Get(auth.SignupPath, authHandler.ShowSignup)
		r.Post(auth.SignupPath, authHandler.Signup)
		r.Post("/logout", authHandler.Logout)

		r.Get("/", dashHandler.Show)

		r.Route("/repo", func(r chi.Router) {
			r.Get("/create", repoHandler.ShowCreate)
			r.Post("/create", repoHandler.Create)
			r.Get("/{id}", repoHandler.Show)
			r.Post("/{id}/star", dashHandler.Star)
			r.Post("/{id}/issues", repoHandler.CreateIssue)
			r.Post("/{id}/upload", repoHandler.Upload)
			r.Get("/{id}/file", repoHandler.ShowFile)
		})

		r.Route("/user/{id}", func(r chi.Router) {
			r.Get("/", profileHandler.Show)
			r.Post("/follow", handler.FollowFrom(dashHandler, profileHandler))
			r.Post("/profile", profileHandler.UpdateProfile)
		})

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
		})
	})

	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the session database (flushes WAL, releases file lock)
func (s *Server) Start() error {
	defer func() {
		if err := s.Close(); err != nil {
			s.logger.Error("closing session database", slog.String("error", err.Error()))
		}
	}()

	// WriteTimeout is generous: a page may wait on several backend calls.
	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("backend", s.config.APIBaseURL),
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
