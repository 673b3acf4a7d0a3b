// Package main is the entry point for the mylinks-api server. It loads
// configuration, establishes database connections, runs migrations, wires
// together all plugins, and starts the HTTP server.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garotinhosDePrograma/mylinks-api/internal/app"
	"github.com/garotinhosDePrograma/mylinks-api/internal/config"
	"github.com/garotinhosDePrograma/mylinks-api/internal/database"
	"github.com/garotinhosDePrograma/mylinks-api/internal/googleoauth"
	"github.com/garotinhosDePrograma/mylinks-api/internal/storage"
)

func main() {
	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	// Configure structured logging based on environment.
	setupLogging(cfg)

	slog.Info("starting mylinks-api",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
	)

	// --- Connect to MySQL ---
	db, err := database.NewMySQL(cfg.Database)
	if err != nil {
		slog.Error("failed to connect to MySQL", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to MySQL")

	// --- Run Migrations ---
	if err := database.RunMigrations(db, "db/migrations"); err != nil {
		slog.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// --- Connect to Redis ---
	rdb, err := database.NewRedis(cfg.Redis)
	if err != nil {
		slog.Error("failed to connect to Redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer rdb.Close()
	slog.Info("connected to Redis")

	// --- Optional Integrations ---
	var google *googleoauth.Client
	if cfg.Google.Enabled() {
		google = googleoauth.New(cfg.Google)
		slog.Info("google login enabled")
	} else {
		slog.Warn("google login disabled: GOOGLE_CLIENT_ID not set")
	}

	var photos *storage.PhotoStorage
	if cfg.S3.Enabled() {
		photos, err = storage.NewPhotoStorage(context.Background(), cfg.S3)
		if err != nil {
			slog.Error("failed to configure photo storage", slog.Any("error", err))
			os.Exit(1)
		}
		slog.Info("photo storage enabled", slog.String("bucket", cfg.S3.Bucket))
	} else {
		slog.Warn("photo storage disabled: S3_BUCKET not set")
	}

	// --- Create Application ---
	application := app.New(cfg, db, rdb, google, photos)

	// Register all routes (auth, links, public profile, health).
	application.RegisterRoutes()

	// --- Graceful Shutdown ---
	// Listen for interrupt/term signals to drain connections cleanly.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		// Give in-flight requests 10 seconds to complete.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := application.Echo.Shutdown(ctx); err != nil {
			slog.Error("server forced shutdown", slog.Any("error", err))
		}
	}()

	// --- Start Server ---
	if err := application.Start(); err != nil {
		// Echo returns http.ErrServerClosed on graceful shutdown, which is expected.
		slog.Info("server stopped", slog.Any("reason", err))
	}
}

// setupLogging configures the global slog logger based on the environment.
// Development uses text format for readability. Production uses JSON for
// structured log aggregation.
func setupLogging(cfg *config.Config) {
	var handler slog.Handler

	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}

	slog.SetDefault(slog.New(handler))
}
