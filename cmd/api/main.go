// cmd/api/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/config"
	"github.com/your-org/foodgram-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/foodgram-backend/internal/infrastructure/database/redis"
	"github.com/your-org/foodgram-backend/internal/infrastructure/storage"
	"github.com/your-org/foodgram-backend/internal/interfaces/http"
	"github.com/your-org/foodgram-backend/internal/pkg/logger"
	"github.com/your-org/foodgram-backend/internal/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := logger.New(cfg)
	if err != nil {
		logrus.Fatalf("Failed to create logger: %v", err)
	}

	log.Infof("🚀 Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Connect to database
	db, err := postgres.NewConnection(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis. The API keeps serving without it; only rate limiting is lost.
	redisClient, err := redis.NewConnection(cfg, log)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, rate limiting disabled")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Run database migrations, indexes and tag seed
	if err := postgres.NewMigration(db.GetDB(), log).Run(); err != nil {
		log.Fatalf("Database migration failed: %v", err)
	}

	// Recipe image storage
	images, err := storage.NewLocalStore(cfg.Storage, log)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	log.Info("✅ All systems operational!")

	// Create and start HTTP server
	server := http.NewServer(cfg, db, redisClient, images, metrics.New("foodgram"), log)

	// Start server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("👋 Shutting down gracefully...")

	// Give server 30 seconds to shutdown gracefully
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		log.Errorf("Failed to shutdown HTTP server gracefully: %v", err)
	}

	log.Info("✅ Server shutdown completed")
}
