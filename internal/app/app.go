// Package app is the application bootstrap and dependency injection root.
// It creates and holds all shared infrastructure (DB pool, Redis client,
// Echo instance) and wires together all plugins.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/garotinhosDePrograma/mylinks-api/internal/apperror"
	"github.com/garotinhosDePrograma/mylinks-api/internal/config"
	"github.com/garotinhosDePrograma/mylinks-api/internal/googleoauth"
	"github.com/garotinhosDePrograma/mylinks-api/internal/middleware"
	"github.com/garotinhosDePrograma/mylinks-api/internal/storage"
	"github.com/garotinhosDePrograma/mylinks-api/internal/token"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// DB is the MySQL connection pool shared by all plugins.
	DB *sql.DB

	// Redis is the Redis client backing the rate limiter.
	Redis *redis.Client

	// Issuer signs and validates the JWT pair.
	Issuer *token.Issuer

	// Google is the federated login client; nil when not configured.
	Google *googleoauth.Client

	// Photos stores profile photos; nil when object storage is not configured.
	Photos *storage.PhotoStorage

	// Echo is the HTTP server instance.
	Echo *echo.Echo
}

// New creates a new App instance with the given dependencies and configures
// the Echo server with global middleware and error handling.
func New(cfg *config.Config, db *sql.DB, rdb *redis.Client, google *googleoauth.Client, photos *storage.PhotoStorage) *App {
	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	// Configure trusted reverse proxy IPs so c.RealIP() returns the actual
	// client IP instead of the proxy's IP. The rate limiter keys on it.
	middleware.TrustedProxies(e, []string{
		"127.0.0.0/8",    // Localhost
		"10.0.0.0/8",     // Docker default bridge
		"172.16.0.0/12",  // Docker bridge (alternate range)
		"192.168.0.0/16", // Common LAN
		"fd00::/8",       // IPv6 private
	})

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		Issuer: token.NewIssuer(cfg.Auth.SecretKey, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL),
		Google: google,
		Photos: photos,
		Echo:   e,
	}

	// Register global middleware in order of execution.
	app.setupMiddleware()

	// Register the custom error handler that maps AppErrors to JSON responses.
	e.HTTPErrorHandler = app.errorHandler

	return app
}

// setupMiddleware registers global middleware on the Echo instance.
// Order matters: outermost (recovery) runs first.
func (a *App) setupMiddleware() {
	// Panic recovery -- must be outermost to catch panics from all other middleware.
	a.Echo.Use(middleware.Recovery())

	// Request logging -- log every request with method, path, status, latency.
	a.Echo.Use(middleware.RequestLogger())

	// Security headers -- X-Frame-Options, X-Content-Type-Options, etc.
	a.Echo.Use(middleware.SecurityHeaders())

	// CORS -- the frontend is served from a different origin.
	a.Echo.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:   []string{a.Config.FrontendURL},
		AllowCredentials: false,
	}))
}

// errorHandler is the custom Echo error handler. It maps domain errors
// (AppError) to JSON responses. Every response from this API is JSON; there
// are no HTML error pages.
func (a *App) errorHandler(err error, c echo.Context) {
	// Don't double-write if response is already committed.
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	errType := "internal_error"
	message := "An unexpected error occurred"

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		errType = appErr.Type
		message = appErr.Message

		// Log internal errors with the underlying cause.
		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}
	} else {
		// Echo's built-in HTTP errors (e.g., 404 from the router, 405).
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			code = echoErr.Code
			errType = "http_error"
			if msg, ok := echoErr.Message.(string); ok {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		} else {
			// Truly unexpected error -- log it.
			slog.Error("unhandled error",
				slog.Any("error", err),
				slog.String("path", c.Request().URL.Path),
			)
		}
	}

	c.JSON(code, map[string]string{
		"type":    errType,
		"message": message,
	})
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting mylinks-api server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
	)
	return a.Echo.Start(addr)
}
