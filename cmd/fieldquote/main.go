package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/hardhatlabs/fieldquote/pkg/catalog"
	"github.com/hardhatlabs/fieldquote/pkg/config"
	"github.com/hardhatlabs/fieldquote/pkg/crm"
	"github.com/hardhatlabs/fieldquote/pkg/middleware"
	"github.com/hardhatlabs/fieldquote/pkg/observability"
	"github.com/hardhatlabs/fieldquote/pkg/orgs"
	"github.com/hardhatlabs/fieldquote/pkg/pricing"
)

func main() {
	seedFile := flag.String("seed-file", "", "YAML seed file applied to the catalog at startup (overrides FIELDQUOTE_SEED_FILE)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat)
	logger.Info("Starting fieldquote server")

	ctx := context.Background()

	// Tracing
	providers, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize OpenTelemetry")
	}

	// Database
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		logger.WithError(err).Fatal("Failed to ping database")
	}
	logger.Info("Database connection established")

	// Catalog store, optionally wrapped with Redis + L1 caching
	pgStore, err := catalog.NewPostgresStore(db)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize catalog store")
	}

	var store catalog.Store = pgStore
	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisURL,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			PoolSize: cfg.Cache.RedisPoolSize,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("Redis unavailable, continuing without cache")
			redisClient = nil
		} else {
			cached, err := catalog.NewCachedStore(pgStore, redisClient, cfg.Cache.L1Size)
			if err != nil {
				logger.WithError(err).Fatal("Failed to initialize catalog cache")
			}
			cached.SetTTL("line_item", cfg.Cache.TTL)
			cached.SetTTL("option", cfg.Cache.TTL)
			cached.SetTTL("package", cfg.Cache.TTL)
			store = cached
			logger.Info("Catalog cache enabled")
		}
	}

	// Optional catalog seeding
	seedPath := cfg.Catalog.SeedFile
	if *seedFile != "" {
		seedPath = *seedFile
	}
	if seedPath != "" {
		seed, err := catalog.LoadSeedFile(seedPath)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load seed file")
		}
		if err := seed.Apply(ctx, pgStore); err != nil {
			logger.WithError(err).Fatal("Failed to apply seed file")
		}
		logger.WithField("file", seedPath).Info("Catalog seed applied")
	}

	// Tenant and CRM services
	orgService, err := orgs.NewPostgresService(db)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize organization service")
	}
	crmService, err := crm.NewPostgresService(db)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize crm service")
	}

	// Pricing engine with Prometheus metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := pricing.NewMetrics(registry)
	engine := pricing.NewEngine(store, logger, metrics)

	// API router with per-org rate limiting, shared through Redis when the
	// cache is up
	var limiter middleware.Limiter
	if redisClient != nil {
		limiter = middleware.NewRedisLimiter(redisClient, nil, "ratelimit")
	} else {
		memLimiter := middleware.NewMemoryLimiter(nil)
		memLimiter.StartCleanup(ctx)
		limiter = memLimiter
	}
	router := mux.NewRouter()
	router.Use(middleware.RequestLogging(logger))
	router.Use(middleware.RateLimit(limiter))
	pricing.NewHandlers(engine, store).RegisterRoutes(router)
	orgs.NewHandlers(orgService).RegisterRoutes(router)
	crm.NewHandlers(crmService).RegisterRoutes(router)

	var apiHandler http.Handler = router
	if cfg.Observability.OTelEnabled {
		apiHandler = otelhttp.NewHandler(router, "fieldquote-api")
	}

	apiServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      apiHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Health and metrics server on a separate port for probes
	healthMux := http.NewServeMux()
	checker := observability.NewHealthChecker(db, redisClient)
	observability.RegisterHealthRoutes(healthMux, checker)
	if cfg.Observability.MetricsEnabled {
		healthMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	// Nightly invoice overdue sweep
	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.Catalog.OverdueSweepSchedule, func() {
		defer observability.RecoverPanic(logger, "overdue invoice sweep")
		n, err := crmService.MarkOverdueInvoices()
		if err != nil {
			logger.WithError(err).Error("Overdue invoice sweep failed")
			return
		}
		if n > 0 {
			logger.WithField("count", n).Info("Marked invoices overdue")
		}
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to schedule overdue invoice sweep")
	}
	scheduler.Start()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("API server listening on %s", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Infof("Health server listening on %s", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return nil
	})

	// Block until a shutdown signal arrives, then drain everything
	shutdown := observability.NewShutdownManager(logger, apiServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(sctx context.Context) error {
		return healthServer.Shutdown(sctx)
	})
	shutdown.RegisterShutdownFunc(func(sctx context.Context) error {
		stopCtx := scheduler.Stop()
		select {
		case <-stopCtx.Done():
			return nil
		case <-sctx.Done():
			return sctx.Err()
		}
	})
	shutdown.RegisterShutdownFunc(func(sctx context.Context) error {
		return observability.ShutdownOTel(sctx, providers, logger)
	})
	shutdown.RegisterShutdownFunc(func(context.Context) error {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				return err
			}
		}
		return db.Close()
	})

	if err := shutdown.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
	}

	if err := g.Wait(); err != nil {
		logger.WithError(err).Fatal("Server error")
	}
}
