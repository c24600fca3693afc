package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Cache configuration
	Cache CacheConfig

	// Catalog configuration
	Catalog CatalogConfig

	// Observability configuration
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
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	ConnLifetime time.Duration
}

// CacheConfig holds Redis and in-process cache configuration
type CacheConfig struct {
	Enabled       bool
	RedisURL      string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int
	L1Size        int
	TTL           time.Duration
}

// CatalogConfig holds catalog bootstrap settings
type CatalogConfig struct {
	// SeedFile is an optional YAML file applied at startup to populate
	// line items, service options and packages.
	SeedFile string

	// OverdueSweepSchedule is the cron expression for the invoice
	// overdue sweep.
	OverdueSweepSchedule string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel  string
	LogFormat string

	// Metrics
	MetricsEnabled bool

	// OpenTelemetry
	OTelEnabled        bool
	OTelEndpoint       string
	OTelServiceName    string
	OTelServiceVersion string
	OTelInsecure       bool // Use insecure gRPC connection
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Database:      loadDatabaseConfig(),
		Cache:         loadCacheConfig(),
		Catalog:       loadCatalogConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("FIELDQUOTE_HOST", "0.0.0.0"),
		Port:            getEnv("FIELDQUOTE_PORT", "8080"),
		ReadTimeout:     getEnvDuration("FIELDQUOTE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("FIELDQUOTE_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("FIELDQUOTE_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("FIELDQUOTE_SHUTDOWN_TIMEOUT", 30*time.Second),
		HealthPort:      getEnv("FIELDQUOTE_HEALTH_PORT", "9090"),
	}
}

// loadDatabaseConfig loads PostgreSQL configuration from environment
func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:          getEnv("FIELDQUOTE_POSTGRES_URL", "postgres://localhost:5432/fieldquote?sslmode=disable"),
		MaxOpenConns: getEnvInt("FIELDQUOTE_POSTGRES_MAX_CONNS", 25),
		MaxIdleConns: getEnvInt("FIELDQUOTE_POSTGRES_IDLE_CONNS", 5),
		ConnLifetime: getEnvDuration("FIELDQUOTE_POSTGRES_CONN_LIFETIME", 5*time.Minute),
	}
}

// loadCacheConfig loads cache configuration from environment
func loadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:       getEnvBool("FIELDQUOTE_CACHE_ENABLED", true),
		RedisURL:      getEnv("FIELDQUOTE_REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("FIELDQUOTE_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("FIELDQUOTE_REDIS_DB", 0),
		RedisPoolSize: getEnvInt("FIELDQUOTE_REDIS_POOL_SIZE", 10),
		L1Size:        getEnvInt("FIELDQUOTE_L1_CACHE_SIZE", 1024),
		TTL:           getEnvDuration("FIELDQUOTE_CACHE_TTL", 5*time.Minute),
	}
}

// loadCatalogConfig loads catalog bootstrap configuration from environment
func loadCatalogConfig() CatalogConfig {
	return CatalogConfig{
		SeedFile:             getEnv("FIELDQUOTE_SEED_FILE", ""),
		OverdueSweepSchedule: getEnv("FIELDQUOTE_OVERDUE_SWEEP_SCHEDULE", "0 2 * * *"),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:           getEnv("FIELDQUOTE_LOG_LEVEL", "info"),
		LogFormat:          getEnv("FIELDQUOTE_LOG_FORMAT", "json"),
		MetricsEnabled:     getEnvBool("FIELDQUOTE_METRICS_ENABLED", true),
		OTelEnabled:        getEnvBool("FIELDQUOTE_OTEL_ENABLED", false),
		OTelEndpoint:       getEnv("FIELDQUOTE_OTEL_ENDPOINT", "localhost:4317"),
		OTelServiceName:    getEnv("FIELDQUOTE_OTEL_SERVICE_NAME", "fieldquote"),
		OTelServiceVersion: getEnv("FIELDQUOTE_OTEL_SERVICE_VERSION", "1.0.0"),
		OTelInsecure:       getEnvBool("FIELDQUOTE_OTEL_INSECURE", true),
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

	if c.Database.URL == "" {
		return fmt.Errorf("postgres URL is required")
	}

	if c.Cache.Enabled {
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("redis URL is required when caching is enabled")
		}
		if c.Cache.L1Size <= 0 {
			return fmt.Errorf("L1 cache size must be positive")
		}
	}

	switch strings.ToLower(c.Observability.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Observability.LogLevel)
	}

	if c.Observability.OTelEnabled {
		if c.Observability.OTelEndpoint == "" {
			return fmt.Errorf("OpenTelemetry endpoint is required when OTel is enabled")
		}
		if c.Observability.OTelServiceName == "" {
			return fmt.Errorf("OpenTelemetry service name is required when OTel is enabled")
		}
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
