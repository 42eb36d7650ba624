// Package main is the entry point for the juicebox API server.
//
// main stays minimal: read configuration, build the logger, hand off to
// internal/server. All actual behaviour lives in imported packages.
package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/sakif/juicebox/internal/server"
)

func main() {
	// A missing .env is fine — in deployment the variables come from the
	// real environment.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(),
	}))

	cfg, err := loadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.WeatherAPIKey == "" {
		// Startup proceeds; the weather endpoints fail fast with a
		// configuration error until the key is provided.
		logger.Warn("WEATHER_API_KEY not set — weather endpoints will return errors")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(cfg.DBPath)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until the server is shut down via SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// loadConfig reads configuration from the environment, applying defaults
// where the variable is unset.
func loadConfig() (server.Config, error) {
	cfg := server.Config{
		Port:           8080,
		DBPath:         "data/juicebox.db",
		Env:            os.Getenv("APP_ENV"),
		WeatherBaseURL: "https://api.openweathermap.org",
		WeatherAPIKey:  os.Getenv("WEATHER_API_KEY"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return cfg, err
		}
		cfg.Port = port
	}

	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		cfg.DBPath = dbPath
	}

	if baseURL := os.Getenv("WEATHER_BASE_URL"); baseURL != "" {
		cfg.WeatherBaseURL = baseURL
	}

	if timeoutStr := os.Getenv("WEATHER_TIMEOUT_SECONDS"); timeoutStr != "" {
		seconds, err := strconv.Atoi(timeoutStr)
		if err != nil {
			return cfg, err
		}
		cfg.WeatherTimeout = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

// logLevel maps LOG_LEVEL to a slog level, defaulting to Info.
func logLevel() slog.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
