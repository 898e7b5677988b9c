// Package server is the composition root: it builds the user store, the
// credential service, the handlers and the middleware chain, and runs the
// HTTP server with graceful shutdown.
//
// ROUTES:
//
//	GET  /                  → landing page (public)
//	GET  /home              → home page (behind the login gate)
//	GET  /static/*          → embedded assets (public)
//	GET  /robots.txt        → embedded asset (public)
//	GET  /healthz           → liveness + user table check (public)
//	GET  /metrics           → Prometheus (public)
//	POST /api/auth/signup   → JSON, CORS + rate limited
//	POST /api/auth/login    → JSON, CORS + rate limited
//	POST /api/auth/logout   → JSON, CORS + rate limited
//
// MIDDLEWARE ORDER:
// RequestID → RealIP → Logger → HTTPMetrics → Recoverer → Secure → RequireLogin.
// The gate runs last so its redirects are logged, counted and carry
// security headers.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/landing-auth/internal/auth"
	"github.com/sakif/landing-auth/internal/handler"
	"github.com/sakif/landing-auth/internal/metrics"
	"github.com/sakif/landing-auth/internal/middleware"
	"github.com/sakif/landing-auth/internal/repository/csvfile"
	"github.com/sakif/landing-auth/internal/service"
	"github.com/sakif/landing-auth/web"
)

// Config holds server configuration.
type Config struct {
	Port           int
	Production     bool
	UserTablePath  string
	SessionSecret  string   // empty → indicator-only gate
	RateLimit      string   // e.g. "60-M"; empty disables
	AllowedOrigins []string // CORS origins for /api
	Locale         string

	// Templates and Static default to the embedded web assets.
	Templates fs.FS
	Static    fs.FS
}

// Server represents the HTTP server and all its dependencies.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	users  *csvfile.UserStore
	tokens *auth.TokenService
}

// New wires the dependency chain:
//
//	csvfile.UserStore → service.CredentialService → handler.AuthHandler
//
// The user table is created (with its header row) before the server
// accepts requests, so an unwritable path fails here and not on the first
// signup.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	if cfg.Templates == nil {
		cfg.Templates = web.Templates()
	}
	if cfg.Static == nil {
		cfg.Static = web.Static()
	}

	users := csvfile.NewUserStore(cfg.UserTablePath)
	if err := users.Ensure(); err != nil {
		return nil, fmt.Errorf("preparing user table: %w", err)
	}

	var tokens *auth.TokenService
	if cfg.SessionSecret != "" {
		ts, err := auth.NewTokenService(cfg.SessionSecret)
		if err != nil {
			return nil, err
		}
		tokens = ts
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		users:  users,
		tokens: tokens,
	}

	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler returns the root handler. Tests drive it with httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.HTTPMetrics)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.NewSecure(middleware.SecureOptions(!s.config.Production)))
	s.router.Use(auth.RequireLogin(auth.DefaultPublicPaths(), s.tokens))

	// === Static files ===
	fileServer := http.FileServer(http.FS(s.config.Static))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	s.router.Get("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFileFS(w, r, s.config.Static, "robots.txt")
	})

	// === Pages ===
	pages, err := handler.NewPageHandler(s.config.Templates, s.config.Locale, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}
	s.router.Get("/", pages.HandleLanding)
	s.router.Get("/home", pages.HandleHome)

	// === Operational ===
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metrics", metrics.Handler())

	// === API ===
	limit, err := middleware.NewIPRateLimiter(s.config.RateLimit)
	if err != nil {
		return fmt.Errorf("parsing rate limit %q: %w", s.config.RateLimit, err)
	}

	credentials := service.NewCredentialService(s.users, s.logger)
	authHandler := handler.NewAuthHandler(credentials, s.tokens, s.config.Production, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.config.AllowedOrigins,
			AllowedMethods:   []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: !allowsAnyOrigin(s.config.AllowedOrigins),
			MaxAge:           300,
		}))
		r.Use(limit)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.HandleSignup)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)
		})
	})

	return nil
}

// handleHealth reports whether the user table is readable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if _, err := s.users.ReadAll(r.Context()); err != nil {
		s.logger.Error("health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unhealthy"}`))
		return
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// Credentials cannot be combined with a wildcard origin.
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}

// Start starts the HTTP server and blocks until SIGINT/SIGTERM, then gives
// in-flight requests 30 seconds to finish.
func (s *Server) Start() error {
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
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("userTable", s.users.Path()),
			slog.Bool("signedSessions", s.tokens != nil),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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
