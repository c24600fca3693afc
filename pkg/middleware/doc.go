// Package middleware provides HTTP middleware shared by the fieldquote API
// routes.
//
// # Overview
//
// Two middlewares are provided:
//
//   - RequestLogging emits one structured logrus line per request.
//   - RateLimit enforces per-organization request budgets, keyed by the
//     org_id path variable. MemoryLimiter serves single-instance
//     deployments; RedisLimiter shares windows across a fleet.
//
// # Usage Example
//
//	router := mux.NewRouter()
//	router.Use(middleware.RequestLogging(logger))
//	router.Use(middleware.RateLimit(middleware.NewMemoryLimiter(nil)))
//
// # Related Packages
//
//   - pkg/pricing: quote endpoints protected by these middlewares
//   - pkg/observability: logger construction and health endpoints
package middleware
