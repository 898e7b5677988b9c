// Package main is the entry point for the landing-auth server.
//
// The main package stays minimal. It reads configuration, builds the
// logger and hands both to internal/server, where the real wiring lives.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sakif/landing-auth/internal/config"
	"github.com/sakif/landing-auth/internal/logger"
	"github.com/sakif/landing-auth/internal/server"
)

func main() {
	// === 1. READ CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	// JSON at info level in prod, text at debug level in dev.
	log := logger.New(cfg.Env)

	if cfg.SessionSecret == "" {
		log.Warn("SESSION_SECRET not set, /home is gated by the login cookie only")
	}

	// === 3. CREATE AND START THE SERVER ===
	srv, err := server.New(server.Config{
		Port:           cfg.Port,
		Production:     cfg.IsProduction(),
		UserTablePath:  cfg.UserTablePath,
		SessionSecret:  cfg.SessionSecret,
		RateLimit:      cfg.RateLimit,
		AllowedOrigins: cfg.AllowedOrigins,
		Locale:         cfg.Locale,
	}, log)
	if err != nil {
		log.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		log.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
