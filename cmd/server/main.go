// Command server runs the finance service HTTP API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	refundapp "github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/application/refund"
	reportapp "github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/application/report"
	taxapp "github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/application/tax"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/cache"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/config"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/event"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/gateway"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/logger"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/persistence"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/infrastructure/telemetry"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/interfaces/http/handler"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/interfaces/http/middleware"
	"github.com/StarkMindsHQ/StrellerMinds-Backend-sub003/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting finance service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port))

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("error closing database", zap.Error(err))
		}
	}()

	// Cache store for report aggregates
	healthDeps := map[string]handler.Pinger{"database": db}
	var store cache.Store
	if cfg.Cache.Backend == "redis" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		store = cache.NewRedisStore(client)
		healthDeps["redis"] = redisPinger{client: client}
	} else {
		store = cache.NewMemoryStore()
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("error closing cache store", zap.Error(err))
		}
	}()
	reportCache := cache.NewReadThroughCache(store)

	// Repositories
	refundRepo := persistence.NewGormRefundRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	taxRateRepo := persistence.NewGormTaxRateRepository(db.DB)
	paymentQueries := persistence.NewGormPaymentQueryRepository(db.DB)
	refundQueries := persistence.NewGormRefundQueryRepository(db.DB)

	// Event bus with report invalidation on completed refunds
	bus := event.NewInMemoryBus(log)
	bus.Subscribe(reportapp.NewRefundCompletedHandler(reportCache, log))
	if err := bus.Start(context.Background()); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := bus.Stop(context.Background()); err != nil {
			log.Error("error stopping event bus", zap.Error(err))
		}
	}()

	var funds refundapp.FundsMover
	if cfg.Gateway.Mode == "provider" {
		funds = gateway.NewProviderGateway(cfg.Gateway, log)
	} else {
		funds = gateway.NewDevGateway(log)
	}

	// Application services
	refundService := refundapp.NewWorkflowService(refundRepo, paymentRepo, funds, bus, log,
		refundapp.WithMaxRetries(cfg.Refund.MaxRetries),
		refundapp.WithMaxLockAttempts(cfg.Refund.MaxLockAttempts))
	taxService := taxapp.NewService(taxRateRepo)
	reportService := reportapp.NewService(paymentQueries, refundQueries, reportCache, log,
		reportapp.WithTTLs(cfg.Cache.HotTTL, cfg.Cache.ClosedTTL))

	metrics := telemetry.NewMetrics(cfg.Telemetry.ServiceName, reportCache)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))
	if cfg.Telemetry.MetricsEnabled {
		engine.Use(middleware.Metrics(metrics))
	}

	r := router.NewRouter(engine).
		Register(handler.NewRefundHandler(refundService, metrics)).
		Register(handler.NewTaxHandler(taxService)).
		Register(handler.NewReportHandler(reportService, metrics)).
		RegisterRoot(handler.NewHealthHandler(cfg.App.Name, healthDeps))
	if cfg.Telemetry.MetricsEnabled {
		r.MountMetrics(metrics.Handler())
	}
	r.Setup()

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
	log.Info("server stopped")
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
