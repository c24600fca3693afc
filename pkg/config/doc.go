// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// Server settings:
//
//	FIELDQUOTE_HOST="0.0.0.0"
//	FIELDQUOTE_PORT="8080"
//	FIELDQUOTE_HEALTH_PORT="9090"
//	FIELDQUOTE_READ_TIMEOUT="15s"
//	FIELDQUOTE_WRITE_TIMEOUT="15s"
//
// Database settings:
//
//	FIELDQUOTE_POSTGRES_URL="postgres://localhost:5432/fieldquote?sslmode=disable"
//	FIELDQUOTE_POSTGRES_MAX_CONNS="25"
//	FIELDQUOTE_POSTGRES_IDLE_CONNS="5"
//
// Cache settings:
//
//	FIELDQUOTE_CACHE_ENABLED="true"
//	FIELDQUOTE_REDIS_URL="localhost:6379"
//	FIELDQUOTE_L1_CACHE_SIZE="1024"
//	FIELDQUOTE_CACHE_TTL="5m"
//
// Catalog settings:
//
//	FIELDQUOTE_SEED_FILE="/etc/fieldquote/seed.yaml"
//	FIELDQUOTE_OVERDUE_SWEEP_SCHEDULE="0 2 * * *"
//
// Observability settings:
//
//	FIELDQUOTE_LOG_LEVEL="info"  # debug, info, warn, error
//	FIELDQUOTE_METRICS_ENABLED="true"
//	FIELDQUOTE_OTEL_ENABLED="true"
//	FIELDQUOTE_OTEL_ENDPOINT="otel-collector:4317"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Log level: %s\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/catalog: Uses database and cache configuration
//   - pkg/observability: Uses observability configuration
package config
