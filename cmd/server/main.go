// Package main is the entry point for the snipshare server.
//
// main's job is deliberately small: read configuration from the
// environment, create the logger and the process-wide signing secret, and
// hand off to internal/server.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sakif/snipshare/internal/auth"
	"github.com/sakif/snipshare/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dbPath := "data/snipshare.db"
	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		dbPath = envDB
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(dbPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// JWT_SECRET should be set in production:
	//   JWT_SECRET=$(openssl rand -hex 32)
	// When unset we generate a per-process secret — every restart then
	// invalidates all outstanding tokens, which is acceptable for dev and
	// documented as a limitation otherwise.
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		generated, err := auth.NewRandomSecret()
		if err != nil {
			logger.Error("failed to generate signing secret", slog.String("error", err.Error()))
			os.Exit(1)
		}
		jwtSecret = generated
		logger.Warn("JWT_SECRET not set — using a random per-process secret; tokens will not survive a restart")
	}

	githubCallbackURL := os.Getenv("GITHUB_CALLBACK_URL")
	if githubCallbackURL == "" {
		githubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", port)
	}

	cfg := server.Config{
		Port:               port,
		DBPath:             dbPath,
		JWTSecret:          jwtSecret,
		GitHubClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		GitHubClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		GitHubCallbackURL:  githubCallbackURL,
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
