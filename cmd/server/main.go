package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/garrywilliams/cake/internal/config"
	"github.com/garrywilliams/cake/internal/infrastructure/database"
	httpServer "github.com/garrywilliams/cake/internal/infrastructure/http"
	"github.com/garrywilliams/cake/internal/infrastructure/httpclient"
	"github.com/garrywilliams/cake/internal/infrastructure/messaging"
	"github.com/garrywilliams/cake/internal/infrastructure/tasks"
	"github.com/garrywilliams/cake/internal/usecase"
	"github.com/garrywilliams/cake/pkg/logger"
	pkgmessaging "github.com/garrywilliams/cake/pkg/messaging"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize database connection
	db, err := database.NewConnection(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, zapLogger); err != nil {
			zapLogger.Error("Failed to close database connection", zap.Error(err))
		}
	}()

	// Run database migrations
	if err := database.Migrate(db, zapLogger); err != nil {
		zapLogger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	repos := database.NewRepositories(db, zapLogger)

	// Initialize the audit event publisher
	publisher := messaging.NewNoopAuditPublisher()
	if cfg.Redis.Enabled {
		redisClient, err := pkgmessaging.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zapLogger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		publisher = messaging.NewRedisAuditPublisher(redisClient, cfg.Redis.Channel)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			zapLogger.Error("Failed to close audit publisher", zap.Error(err))
		}
	}()

	// Initialize the task lane
	pool := tasks.NewPool(cfg.Tasks.Workers, cfg.Tasks.QueueSize, zapLogger)

	// Initialize services
	client := httpclient.NewClient(cfg.Tasks.CallTimeout, zapLogger)
	auditService := usecase.NewAuditService(zapLogger, repos.CakeRequest, publisher)
	workflow := usecase.NewCakeWorkflowService(cfg, client, pool, auditService, zapLogger)

	// Initialize the HTTP server
	httpSrv := httpServer.NewServer(cfg, zapLogger, workflow)

	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	// Drain pending audit writes before the process exits
	if err := pool.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to drain task pool", zap.Error(err))
	}

	zapLogger.Info("Shutdown complete")
}
