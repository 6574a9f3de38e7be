// Package app wires together all dependencies and runs the homestay API.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/xdf2508/e-family/pkg/database"
	"github.com/xdf2508/e-family/pkg/health"
	"github.com/xdf2508/e-family/pkg/httpclient"
	"github.com/xdf2508/e-family/pkg/httputil"
	pkgkafka "github.com/xdf2508/e-family/pkg/kafka"
	"github.com/xdf2508/e-family/pkg/middleware"
	"github.com/xdf2508/e-family/pkg/tracing"

	"github.com/xdf2508/e-family/internal/auth"
	"github.com/xdf2508/e-family/internal/cache"
	"github.com/xdf2508/e-family/internal/config"
	"github.com/xdf2508/e-family/internal/event"
	handler "github.com/xdf2508/e-family/internal/handler/http"
	"github.com/xdf2508/e-family/internal/repository/postgres"
	"github.com/xdf2508/e-family/internal/service"
	"github.com/xdf2508/e-family/internal/wechat"
	"github.com/xdf2508/e-family/migrations"
)

const serviceName = "homestay-api"

// App holds the long-lived resources of the running service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redis          *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	httputil.SetDebugMode(cfg.Environment == "development")

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.TracingEndpoint,
		SampleRate:     cfg.TracingSampleRate,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := cfg.Postgres()
	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, serviceName)

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Redis backs the room list cache. The service degrades to direct
	// database reads when it is unreachable at startup.
	var redisClient *redis.Client
	redisClient, err = database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		logger.Warn("redis unavailable, room cache disabled",
			slog.String("error", err.Error()),
		)
		redisClient = nil
	}

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// WeChat client: no retries (the code exchange is not idempotent), with
	// a circuit breaker in front of the provider.
	wechatHTTP := httpclient.New(httpclient.Config{
		Timeout:    cfg.WechatTimeout,
		MaxRetries: 0,
	})
	wechatBreaker := httpclient.NewCircuitBreakerClient(wechatHTTP, httpclient.DefaultCircuitBreakerConfig("wechat"), logger)
	wechatClient := wechat.NewClient(wechat.Config{
		AppID:     cfg.WechatAppID,
		AppSecret: cfg.WechatAppSecret,
		BaseURL:   cfg.WechatBaseURL,
		Timeout:   cfg.WechatTimeout,
	}, wechatBreaker, logger)

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiry)
	userRepo := postgres.NewUserRepository(pool)
	roomRepo := postgres.NewRoomRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	favoriteRepo := postgres.NewFavoriteRepository(pool)
	eventProducer := event.NewProducer(producer, logger)

	var roomCache service.RoomCache
	if redisClient != nil {
		roomCache = cache.NewRoomCache(redisClient, cfg.RoomCacheTTL)
	}

	userService := service.NewUserService(userRepo, wechatClient, jwtManager, eventProducer, logger)
	catalogService := service.NewCatalogService(roomRepo, roomCache, logger)
	orderService := service.NewOrderService(orderRepo, roomRepo, userRepo, eventProducer, cfg.OrderOwnershipMode, logger)
	favoriteService := service.NewFavoriteService(favoriteRepo, roomRepo, eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})
	if redisClient != nil {
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	// HTTP router.
	router := handler.NewRouter(handler.RouterDeps{
		Users:     userService,
		Catalog:   catalogService,
		Orders:    orderService,
		Favorites: favoriteService,
		Tokens:    jwtManager,
		UserRepo:  userRepo,
		Health:    healthHandler,
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		Logger:         logger,
		LoginRateRPS:   cfg.LoginRateRPS,
		LoginRateBurst: cfg.LoginRateBurst,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redis:          redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in order: drain HTTP, flush
// spans, close Kafka, close Redis, close the database pool.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
