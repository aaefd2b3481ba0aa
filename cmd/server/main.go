// Package main is the entry point for the GitOrbit web frontend.
//
// MAIN PACKAGE IN GO:
// The main package should be kept minimal. Its job is to:
// 1. Read configuration (environment variables, see internal/config)
// 2. Create the logger
// 3. Build and start the server
//
// All actual logic lives in internal/. cmd/ is the Go convention for
// executable entry points; each binary gets its own directory.
package main

import (
	"log/slog"
	"os"

	"github.com/sakif/gitorbit/internal/config"
	"github.com/sakif/gitorbit/internal/server"
)

func main() {
	// === 1. READ CONFIGURATION ===
	// os.Getenv is passed in so tests can load a Config from a plain map.
	cfg, err := config.Load(os.Getenv)
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. SET UP LOGGING ===
	// A LevelVar lets the level be changed at runtime without rebuilding the
	// handler. Text output for terminals, JSON when LOG_FORMAT=json.
	var level slog.LevelVar
	level.Set(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: &level}

	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.LogJSON {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)

	// === 3. CREATE AND START THE SERVER ===
	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
