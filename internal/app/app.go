package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/ShaikhZaamir/vendor-portal/internal/auth"
	"github.com/ShaikhZaamir/vendor-portal/internal/config"
	"github.com/ShaikhZaamir/vendor-portal/internal/event"
	handler "github.com/ShaikhZaamir/vendor-portal/internal/handler/http"
	"github.com/ShaikhZaamir/vendor-portal/internal/repository/postgres"
	redisrepo "github.com/ShaikhZaamir/vendor-portal/internal/repository/redis"
	"github.com/ShaikhZaamir/vendor-portal/internal/service"
	"github.com/ShaikhZaamir/vendor-portal/internal/storage"
	"github.com/ShaikhZaamir/vendor-portal/internal/storage/memory"
	"github.com/ShaikhZaamir/vendor-portal/internal/storage/minio"
	"github.com/ShaikhZaamir/vendor-portal/migrations"
	"github.com/ShaikhZaamir/vendor-portal/pkg/database"
	"github.com/ShaikhZaamir/vendor-portal/pkg/health"
	pkgkafka "github.com/ShaikhZaamir/vendor-portal/pkg/kafka"
	"github.com/ShaikhZaamir/vendor-portal/pkg/middleware"
	"github.com/ShaikhZaamir/vendor-portal/pkg/tracing"
)

// App wires together all dependencies and runs the vendor portal.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *redis.Client
	producer       *pkgkafka.Producer
	memLimiter     *middleware.MemoryLimiter
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}
	ok := false
	defer func() {
		if !ok {
			a.closeResources()
		}
	}()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.tracerShutdown = tracerShutdown

	// Initialize PostgreSQL connection pool.
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	a.pool = pool
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, cfg.ServiceName); err != nil {
		logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
	}

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	if cfg.SlowQuery > 0 {
		database.SetSlowQueryLogging(cfg.SlowQuery, logger)
	}

	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})

	// Review rate limiter: shared through Redis when configured.
	var reviewLimiter middleware.Limiter
	if cfg.RedisURL != "" {
		client, err := database.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = client
		reviewLimiter = redisrepo.NewRateLimitStore(client, "reviews", cfg.ReviewRatePerMinute, time.Minute)
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		logger.Info("review rate limiter backed by redis")
	} else {
		a.memLimiter = middleware.NewMemoryLimiter(cfg.ReviewRatePerMinute, cfg.ReviewRatePerMinute, 10*time.Minute)
		reviewLimiter = a.memLimiter
	}

	// Domain events.
	var events service.EventPublisher = event.NoopProducer{}
	if cfg.KafkaEnabled {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		kafkaCfg.Async = cfg.KafkaAsync
		a.producer = pkgkafka.NewProducer(kafkaCfg, logger)
		events = event.NewProducer(a.producer, logger)
		producer := a.producer
		healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Object storage.
	store, files, err := newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	uploads := storage.NewBreakerStorage(store, storage.DefaultBreakerConfig("object-storage"), logger)
	if cfg.StorageDriver == "minio" {
		healthHandler.RegisterNonCritical("minio", uploads.Ping)
	}

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)
	logger.Info("token issuer configured", slog.Duration("expiry", jwtManager.Expiry()))
	vendorRepo := postgres.NewVendorRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool, cfg.ReviewLockTimeout)

	services := handler.Services{
		Auth:     service.NewAuthService(vendorRepo, jwtManager, events, logger),
		Vendors:  service.NewVendorService(vendorRepo, productRepo, logger),
		Reviews:  service.NewReviewService(reviewRepo, vendorRepo, events, logger),
		Products: service.NewProductService(productRepo, logger),
		Media:    service.NewMediaService(uploads, cfg.UploadMaxBytes, cfg.UploadDefaultFolder, logger),
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins
	corsCfg.Environment = cfg.Environment

	router := handler.NewRouter(services, handler.RouterConfig{
		ServiceName:       cfg.ServiceName,
		CORS:              corsCfg,
		TokenValidator:    jwtManager.Validator(),
		ReviewLimiter:     reviewLimiter,
		AdminAllowedCIDRs: cfg.AdminAllowedCIDRs,
		PprofAllowedCIDRs: cfg.PprofAllowedCIDRs,
		Files:             files,
		Health:            healthHandler,
	}, logger)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ok = true
	return a, nil
}

// newStorage builds the configured object store. The in-memory store also
// returns the handler that serves its files.
func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, http.Handler, error) {
	switch cfg.StorageDriver {
	case "minio":
		store, err := minio.New(ctx, minio.Config{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.MinioPublicURL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init minio storage: %w", err)
		}
		return store, nil, nil
	default:
		store := memory.New("")
		return store, store.Handler(), nil
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		_ = a.Shutdown()
		return err
	}

	return a.Shutdown()
}

// Shutdown drains HTTP requests first, then flushes spans, then closes the
// producer, Redis and the pool.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.closeResources(); err != nil {
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

func (a *App) closeResources() error {
	var errs []error

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.memLimiter != nil {
		a.memLimiter.Close()
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	return errors.Join(errs...)
}
