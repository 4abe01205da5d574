package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/kacper-wojtaszczyk/jackfruit/lineage-go/internal/api"
	"github.com/kacper-wojtaszczyk/jackfruit/lineage-go/internal/config"
	"github.com/kacper-wojtaszczyk/jackfruit/lineage-go/internal/dataset"
	"github.com/kacper-wojtaszczyk/jackfruit/lineage-go/internal/exitcode"
)

func main() {
	// Initialize structured logger (JSON to stdout)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Warn("failed to load env vars", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(exitcode.ConfigError)
	}
	defaultEnv, err := dataset.ParseEnvironmentTag(cfg.Environment)
	if err != nil {
		slog.Error("invalid environment", "env", cfg.Environment, "error", err)
		os.Exit(exitcode.ConfigError)
	}

	mux := http.NewServeMux()
	api.NewHandler(defaultEnv).RegisterRoutes(mux)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port, "default_env", defaultEnv)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(exitcode.ApplicationError)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(exitcode.ApplicationError)
	}

	slog.Info("server stopped")
}
