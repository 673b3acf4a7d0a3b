// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// BaseURL is the public-facing URL of this API.
	BaseURL string

	// FrontendURL is the web client origin; the Google OAuth callback
	// redirects here and CORS allows it.
	FrontendURL string

	// Database holds MySQL connection settings.
	Database DatabaseConfig

	// Redis holds Redis connection settings (rate-limit counters).
	Redis RedisConfig

	// Auth holds token signing and lifetime settings.
	Auth AuthConfig

	// Google holds the OAuth client settings for federated login.
	Google GoogleConfig

	// S3 holds the object storage settings for profile photos.
	S3 S3Config
}

// DatabaseConfig holds MySQL connection parameters. Individual fields are
// read from separate env vars so container orchestrators can manage each
// independently. If DATABASE_URL is set, it takes precedence.
type DatabaseConfig struct {
	// Host is the MySQL address in host:port format (default: "localhost:3306").
	// If no port is specified, 3306 is appended automatically.
	Host string

	// User is the MySQL username (default: "mylinks").
	User string

	// Password is the MySQL password (default: "mylinks").
	Password string

	// Name is the database name (default: "mylinks").
	Name string

	// dsnOverride is set when DATABASE_URL is provided, bypassing individual fields.
	dsnOverride string

	// MaxOpenConns is the maximum number of open connections in the pool.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections in the pool.
	MaxIdleConns int

	// ConnMaxLifetime is how long a connection can be reused.
	ConnMaxLifetime time.Duration
}

// DSN returns the go-sql-driver/mysql connection string. If DATABASE_URL was
// set, it is returned as-is. Otherwise the DSN is built from the individual
// Host/User/Password/Name fields using the driver's Config.FormatDSN()
// to safely handle special characters in passwords.
func (d DatabaseConfig) DSN() string {
	if d.dsnOverride != "" {
		return d.dsnOverride
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, "3306")
	cfg.DBName = d.Name
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// ensurePort appends the default port if the host string doesn't include one.
// Allows users to set DB_HOST=mydb (gets :3306) or DB_HOST=mydb:3307 (as-is).
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string
}

// AuthConfig holds token signing settings. Both token kinds are signed with
// the same symmetric key; there is no key rotation.
type AuthConfig struct {
	// SecretKey is the HS256 signing key (32+ characters in production).
	SecretKey string

	// AccessTTL is the lifetime of access tokens.
	AccessTTL time.Duration

	// RefreshTTL is the lifetime of refresh tokens.
	RefreshTTL time.Duration
}

// GoogleConfig holds the OAuth client registration for federated login.
// Federated login is disabled when ClientID is empty.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string

	// RedirectURL is this API's callback endpoint as registered with Google.
	RedirectURL string
}

// Enabled reports whether Google login is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != ""
}

// S3Config holds the object storage settings for profile photos. Works with
// AWS S3 and S3-compatible services like MinIO (set Endpoint for the latter).
type S3Config struct {
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string

	// Endpoint overrides the AWS endpoint for S3-compatible services.
	Endpoint string

	// PublicBaseURL is the URL prefix under which uploaded objects are
	// publicly reachable (bucket website or CDN in front of it).
	PublicBaseURL string

	// MaxPhotoSize is the maximum accepted profile photo size in bytes.
	MaxPhotoSize int64
}

// Enabled reports whether object storage is configured.
func (s S3Config) Enabled() bool {
	return s.Bucket != ""
}

// Load reads configuration from environment variables with sensible defaults.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{
		Env:         getEnv("ENV", "development"),
		Port:        getEnvInt("PORT", 8080),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost:3306"),
			User:            getEnv("DB_USER", "mylinks"),
			Password:        getEnv("DB_PASSWORD", "mylinks"),
			Name:            getEnv("DB_NAME", "mylinks"),
			dsnOverride:     getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		Auth: AuthConfig{
			SecretKey:  getEnv("SECRET_KEY", ""),
			AccessTTL:  getEnvDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
			RefreshTTL: getEnvDuration("REFRESH_TOKEN_TTL", 168*time.Hour),
		},

		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  getEnv("GOOGLE_REDIRECT_URI", ""),
		},

		S3: S3Config{
			Bucket:        getEnv("S3_BUCKET", "mylinks-media"),
			Region:        getEnv("S3_REGION", "us-east-1"),
			AccessKey:     getEnv("S3_ACCESS_KEY", ""),
			SecretKey:     getEnv("S3_SECRET_KEY", ""),
			Endpoint:      getEnv("S3_ENDPOINT", ""),
			PublicBaseURL: getEnv("S3_PUBLIC_BASE_URL", ""),
			MaxPhotoSize:  getEnvInt64("MAX_PHOTO_SIZE", 5*1024*1024), // 5MB
		},
	}

	// Default the Google redirect to this API's own callback route when the
	// client is configured but no explicit URI was given.
	if cfg.Google.ClientID != "" && cfg.Google.RedirectURL == "" {
		cfg.Google.RedirectURL = cfg.BaseURL + "/auth/google/callback"
	}

	// Validate required fields in production. Case-insensitive check catches
	// common variants like "Production", "prod", etc.
	envLower := strings.ToLower(cfg.Env)
	if envLower == "production" || envLower == "prod" {
		if cfg.Auth.SecretKey == "" {
			return nil, fmt.Errorf("SECRET_KEY is required in production")
		}
		if len(cfg.Auth.SecretKey) < 32 {
			return nil, fmt.Errorf("SECRET_KEY must be at least 32 characters in production")
		}
	}

	// Provide a dev-only default secret so local dev works without .env.
	if cfg.Auth.SecretKey == "" {
		cfg.Auth.SecretKey = "dev-secret-key-do-not-use-in-production!!"
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvInt64 reads an int64 env var or returns the default.
func getEnvInt64(key string, defaultVal int64) int64 {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "15m") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
