// Package app wires configuration, clients, stores and the HTTP server into
// a runnable service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/screenhall/web/internal/backend"
	"github.com/screenhall/web/internal/config"
	"github.com/screenhall/web/internal/event"
	handler "github.com/screenhall/web/internal/handler/http"
	"github.com/screenhall/web/internal/notify"
	"github.com/screenhall/web/internal/proxy"
	"github.com/screenhall/web/internal/repository"
	"github.com/screenhall/web/internal/repository/redisstore"
	"github.com/screenhall/web/internal/service"
	"github.com/screenhall/web/pkg/database"
	"github.com/screenhall/web/pkg/health"
	"github.com/screenhall/web/pkg/httpclient"
	pkgkafka "github.com/screenhall/web/pkg/kafka"
	"github.com/screenhall/web/pkg/middleware"
	"github.com/screenhall/web/pkg/tracing"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	rdb        *redis.Client
	producer   *pkgkafka.Producer
	poller     *notify.Poller
	httpServer *http.Server

	tracingShutdown func(context.Context) error
}

// NewApp builds the application graph. It connects to Redis (when the redis
// session store is configured) and constructs everything else lazily enough
// that the service can start with Kafka or the backend down.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{cfg: cfg, logger: logger}

	// Tracing first so every later component picks up the global provider.
	shutdown, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    "web",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	app.tracingShutdown = shutdown

	// Checkout session store.
	var store repository.SessionStore
	switch cfg.SessionStore {
	case "redis":
		rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		app.rdb = rdb
		store = redisstore.NewSessionStore(rdb, cfg.CheckoutTTL())
	default:
		store = repository.NewMemorySessionStore(cfg.CheckoutTTL())
	}

	// Kafka producer for checkout lifecycle events.
	app.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	events := event.NewProducer(app.producer, logger)

	// Two backend clients. Catalog reads go through a retrying client; the
	// checkout client never retries, so a timed-out booking write is
	// surfaced instead of re-issued. Both sit behind circuit breakers.
	breakerCfg := httpclient.BreakerConfig{
		Name:         "backend",
		MaxRequests:  cfg.CBMaxRequests,
		Interval:     time.Duration(cfg.CBInterval) * time.Second,
		Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
		FailureRatio: cfg.CBFailureRatio,
		MinRequests:  cfg.CBMinRequests,
	}

	catalogHTTP := httpclient.New(httpclient.Config{
		Timeout:         time.Duration(cfg.BackendTimeoutSeconds) * time.Second,
		MaxRetries:      cfg.BackendMaxRetries,
		RetryWaitMin:    500 * time.Millisecond,
		RetryWaitMax:    3 * time.Second,
		MaxConnsPerHost: 64,
	})
	catalogBreaker := breakerCfg
	catalogBreaker.Name = "backend-catalog"
	catalogClient := backend.NewClient(
		httpclient.NewBreakerClient(catalogHTTP, catalogBreaker, logger),
		cfg.BackendURL, logger,
	)

	checkoutHTTP := httpclient.New(httpclient.Config{
		Timeout:         time.Duration(cfg.BackendTimeoutSeconds) * time.Second,
		MaxRetries:      0,
		MaxConnsPerHost: 64,
	})
	checkoutBreaker := breakerCfg
	checkoutBreaker.Name = "backend-checkout"
	checkoutClient := backend.NewClient(
		httpclient.NewBreakerClient(checkoutHTTP, checkoutBreaker, logger),
		cfg.BackendURL, logger,
	)

	checkout := service.NewCheckoutService(store, checkoutClient, events, logger)

	poller, err := notify.NewPoller(catalogClient, notify.Config{
		KeepAliveInterval: time.Duration(cfg.KeepAliveIntervalSeconds) * time.Second,
		CatalogInterval:   time.Duration(cfg.CatalogRefreshMinutes) * time.Minute,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create poller: %w", err)
	}
	app.poller = poller

	adminProxy, err := proxy.NewAdminProxy(cfg.BackendURL, logger)
	if err != nil {
		return nil, fmt.Errorf("create admin proxy: %w", err)
	}

	healthHandler := health.NewHandler()
	if app.rdb != nil {
		healthHandler.RegisterCritical("redis", func(ctx context.Context) error {
			return app.rdb.Ping(ctx).Err()
		})
	}
	healthHandler.RegisterNonCritical("kafka", app.producer.Ping)
	healthHandler.RegisterNonCritical("backend", catalogClient.Ping)

	router := handler.NewRouter(handler.RouterDeps{
		Checkout:      checkout,
		Backend:       catalogClient,
		Poller:        poller,
		AdminProxy:    adminProxy,
		HealthHandler: healthHandler,
		Logger:        logger,
		JWTSecret:     cfg.JWTSecret,
		CookieMaxAge:  cfg.CookieMaxAge(),
		SecureCookies: cfg.SecureCookies,
		CORS: middleware.CORSConfig{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Correlation-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		},
	})

	app.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return app, nil
}

// Run starts the background poller and the HTTP server, then blocks until
// the context is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	if err := a.poller.Start(ctx); err != nil {
		return fmt.Errorf("start poller: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
		return a.Shutdown()
	}
}

// Shutdown stops everything in reverse dependency order: stop accepting
// requests, stop the poller, flush the producer, close connections.
func (a *App) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown", slog.String("error", err.Error()))
	}

	if err := a.poller.Shutdown(); err != nil {
		a.logger.Error("poller shutdown", slog.String("error", err.Error()))
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close", slog.String("error", err.Error()))
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close", slog.String("error", err.Error()))
		}
	}

	if err := a.tracingShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracing shutdown", slog.String("error", err.Error()))
	}

	a.logger.Info("shutdown complete")
	return nil
}
