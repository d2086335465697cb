// Package config loads all service configuration from environment
// variables, with sane defaults for local development. Every variable
// is prefixed OPENSHELF_.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openshelf/openshelf/pkg/mailer"
	"github.com/openshelf/openshelf/pkg/observability"
	"github.com/openshelf/openshelf/pkg/uploads"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Auth          AuthConfig
	Mongo         MongoConfig
	Redis         RedisConfig
	SMTP          mailer.SMTPConfig
	Uploads       UploadsConfig
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string

	// PublicBaseURL is the externally visible origin, used for links in
	// reset emails and upload URLs.
	PublicBaseURL string
}

// AuthConfig holds token and authorization settings.
type AuthConfig struct {
	// JWTSecret signs every issued token. Required outside dev mode.
	JWTSecret string

	SessionTTL time.Duration
	ResetTTL   time.Duration

	// RoleCacheTTL bounds how long a role's permission set may be served
	// from cache; 0 disables the cache.
	RoleCacheTTL time.Duration

	// RolesFile seeds the role collection at startup when set.
	RolesFile string

	// LoginRateLimit caps login and forgot-password attempts per client
	// per window.
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

// MongoConfig holds document store settings. An empty URI selects the
// in-memory stores (dev mode).
type MongoConfig struct {
	URI      string
	Database string
}

// RedisConfig holds optional Redis settings for distributed rate
// limiting. An empty Addr selects the in-process limiter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// UploadsConfig selects the upload backend. Bucket set means S3;
// otherwise LocalDir is used.
type UploadsConfig struct {
	S3       uploads.S3Config
	LocalDir string
}

// ObservabilityConfig holds logging and metrics settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Auth:          loadAuthConfig(),
		Mongo:         loadMongoConfig(),
		Redis:         loadRedisConfig(),
		SMTP:          loadSMTPConfig(),
		Uploads:       loadUploadsConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("OPENSHELF_HOST", "0.0.0.0"),
		Port:            getEnv("OPENSHELF_PORT", "8080"),
		ReadTimeout:     getEnvDuration("OPENSHELF_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("OPENSHELF_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("OPENSHELF_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("OPENSHELF_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("OPENSHELF_HEALTH_PORT", "9090"),
		PublicBaseURL:   getEnv("OPENSHELF_PUBLIC_BASE_URL", "http://localhost:8080"),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:       getEnv("OPENSHELF_JWT_SECRET", ""),
		SessionTTL:      getEnvDuration("OPENSHELF_SESSION_TTL", time.Hour),
		ResetTTL:        getEnvDuration("OPENSHELF_RESET_TTL", time.Hour),
		RoleCacheTTL:    getEnvDuration("OPENSHELF_ROLE_CACHE_TTL", time.Minute),
		RolesFile:       getEnv("OPENSHELF_ROLES_FILE", ""),
		LoginRateLimit:  getEnvInt("OPENSHELF_LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: getEnvDuration("OPENSHELF_LOGIN_RATE_WINDOW", time.Minute),
	}
}

func loadMongoConfig() MongoConfig {
	return MongoConfig{
		URI:      getEnv("OPENSHELF_MONGO_URI", ""),
		Database: getEnv("OPENSHELF_MONGO_DATABASE", "openshelf"),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:     getEnv("OPENSHELF_REDIS_ADDR", ""),
		Password: getEnv("OPENSHELF_REDIS_PASSWORD", ""),
		DB:       getEnvInt("OPENSHELF_REDIS_DB", 0),
	}
}

func loadSMTPConfig() mailer.SMTPConfig {
	return mailer.SMTPConfig{
		Host:     getEnv("OPENSHELF_SMTP_HOST", ""),
		Port:     getEnv("OPENSHELF_SMTP_PORT", "587"),
		From:     getEnv("OPENSHELF_SMTP_FROM", "no-reply@openshelf.local"),
		Username: getEnv("OPENSHELF_SMTP_USERNAME", ""),
		Password: getEnv("OPENSHELF_SMTP_PASSWORD", ""),
	}
}

func loadUploadsConfig() UploadsConfig {
	return UploadsConfig{
		S3: uploads.S3Config{
			Bucket:       getEnv("OPENSHELF_S3_BUCKET", ""),
			Region:       getEnv("OPENSHELF_S3_REGION", "us-east-1"),
			Endpoint:     getEnv("OPENSHELF_S3_ENDPOINT", ""),
			AccessKey:    getEnv("OPENSHELF_S3_ACCESS_KEY", ""),
			SecretKey:    getEnv("OPENSHELF_S3_SECRET_KEY", ""),
			UsePathStyle: getEnvBool("OPENSHELF_S3_USE_PATH_STYLE", false),
		},
		LocalDir: getEnv("OPENSHELF_UPLOAD_DIR", "./uploads"),
	}
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       observability.ParseLogLevel(getEnv("OPENSHELF_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("OPENSHELF_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	// A missing secret is tolerated only in dev mode (in-memory stores);
	// main generates an ephemeral one there.
	if c.Mongo.URI != "" && c.Auth.JWTSecret == "" {
		return fmt.Errorf("OPENSHELF_JWT_SECRET is required when MongoDB is configured")
	}

	if c.Auth.SessionTTL <= 0 || c.Auth.ResetTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if c.Auth.LoginRateLimit <= 0 {
		return fmt.Errorf("login rate limit must be positive")
	}

	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
