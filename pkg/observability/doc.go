// Package observability provides logging, health checks, tracing and
// graceful shutdown for the fieldquote server.
//
// # Overview
//
// Structured logging is built on logrus with JSON output by default.
// Health checks probe PostgreSQL and Redis and serve Kubernetes-style
// liveness and readiness endpoints. Tracing exports to an OpenTelemetry
// collector over OTLP gRPC; application metrics are Prometheus counters
// and histograms registered by the packages that own them.
//
// # Usage Example
//
//	logger := observability.NewLogger("info", "json")
//
//	checker := observability.NewHealthChecker(db, redisClient)
//	healthMux := http.NewServeMux()
//	observability.RegisterHealthRoutes(healthMux, checker)
//
//	providers, err := observability.InitOTel(ctx, otelCfg, logger)
//	if err != nil {
//		logger.WithError(err).Fatal("failed to initialize tracing")
//	}
//	defer observability.ShutdownOTel(ctx, providers, logger)
//
// # Related Packages
//
//   - pkg/config: supplies the observability settings
//   - pkg/pricing: registers composition metrics with Prometheus
package observability
