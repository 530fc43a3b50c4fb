package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	radix "github.com/mediocregopher/radix/v3"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/database"
	"github.com/junaidrashid-git/storefront-api/events"
	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/routes"
	"github.com/junaidrashid-git/storefront-api/services"
	"github.com/junaidrashid-git/storefront-api/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("❌ Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	zlog.Info("✅ Starting application...", zap.String("env", cfg.Server.Env))

	// Init DB
	logLevel := gormlogger.Warn
	if !cfg.IsProduction() {
		logLevel = gormlogger.Info
	}
	db, err := database.Open(cfg.Database, logLevel)
	if err != nil {
		zlog.Fatal("❌ DB connection failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("❌ AutoMigrate failed", zap.Error(err))
	}

	pricing, err := services.NewPricingPolicy(cfg.Pricing)
	if err != nil {
		zlog.Fatal("❌ Invalid pricing policy", zap.Error(err))
	}

	ctx := context.Background()
	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		zlog.Fatal("❌ Failed to init storage", zap.Error(err))
	}

	hub := events.NewHub()
	publishers := events.Multi{hub}
	if cfg.RabbitMQ.URL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			zlog.Fatal("❌ Failed to connect RabbitMQ", zap.Error(err))
		}
		defer amqpPub.Close()
		publishers = append(publishers, amqpPub)
	}

	limiter := newLimiter(cfg, zlog)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.NewRouter(routes.Deps{
		DB:      db,
		Config:  cfg,
		Logger:  zlog,
		Cart:    services.NewCartService(db, pricing),
		Reviews: services.NewReviewService(db, publishers),
		Store:   store,
		Events:  publishers,
		Hub:     hub,
		Limiter: limiter,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("🚀 Server running", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("❌ Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}
}

// newLimiter shares request budgets through Redis when it is configured.
func newLimiter(cfg *config.Config, zlog *zap.Logger) middleware.Limiter {
	if cfg.Redis.Addr == "" {
		return middleware.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}
	pool, err := radix.NewPool("tcp", cfg.Redis.Addr, cfg.Redis.PoolSize)
	if err != nil {
		zlog.Warn("redis unavailable, using in-process rate limiter", zap.Error(err))
		return middleware.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}
	return middleware.NewRedisLimiter(pool, cfg.RateLimit.Requests, cfg.RateLimit.Window)
}
