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

	"github.com/shoply/shoply-api/internal/auth"
	"github.com/shoply/shoply-api/internal/cart"
	"github.com/shoply/shoply-api/internal/catalog"
	"github.com/shoply/shoply-api/internal/config"
	"github.com/shoply/shoply-api/internal/event"
	handler "github.com/shoply/shoply-api/internal/handler/http"
	"github.com/shoply/shoply-api/internal/order"
	"github.com/shoply/shoply-api/internal/repository/postgres"
	redisrepo "github.com/shoply/shoply-api/internal/repository/redis"
	"github.com/shoply/shoply-api/migrations"
	"github.com/shoply/shoply-api/pkg/database"
	"github.com/shoply/shoply-api/pkg/health"
	"github.com/shoply/shoply-api/pkg/httputil"
	pkgkafka "github.com/shoply/shoply-api/pkg/kafka"
)

// App wires together all dependencies and runs the API server.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	redis      *redis.Client
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates the application, connecting every backing store up front so
// a misconfigured deployment fails at startup rather than on first request.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	httputil.SetDetailedErrors(cfg.Environment != "production")

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres(), logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "shoply-api")

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("host", cfg.RedisHost),
		slog.Int("port", cfg.RedisPort),
	)

	// Event publishing is optional: without brokers the API runs fine, it
	// just emits nothing.
	var producer *pkgkafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka brokers not configured, event publishing disabled")
	}

	productRepo := postgres.NewProductRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	cartRepo := redisrepo.NewCartRepository(redisClient, cfg.CartTTL)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	eventProducer := event.NewProducer(producer, logger)

	catalogSvc := catalog.NewService(productRepo, eventProducer, logger)
	authSvc := auth.NewService(userRepo, jwtManager, logger)
	cartSvc := cart.NewService(cartRepo, productRepo, logger)
	orderSvc := order.NewService(orderRepo, productRepo, cartRepo, logger)

	probes := health.NewHandler()
	probes.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	probes.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})

	router := handler.NewRouter(handler.RouterDeps{
		Config:   cfg,
		Logger:   logger,
		Products: handler.NewProductHandler(catalogSvc, logger),
		Auth:     handler.NewAuthHandler(authSvc, logger),
		Cart:     handler.NewCartHandler(cartSvc, logger),
		Orders:   handler.NewOrderHandler(orderSvc, logger),
		Health:   handler.NewHealthHandler(cfg.Environment),
		Probes:   probes,
		AuthSvc:  authSvc,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		redis:      redisClient,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
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

// Shutdown stops components in order: drain HTTP, close the Kafka producer,
// then close the stores.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.redis.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
