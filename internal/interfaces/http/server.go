// internal/interfaces/http/server.go
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodgram-backend/internal/config"
	"github.com/your-org/foodgram-backend/internal/domain/recipe"
	"github.com/your-org/foodgram-backend/internal/infrastructure/database/postgres"
	redisdb "github.com/your-org/foodgram-backend/internal/infrastructure/database/redis"
	"github.com/your-org/foodgram-backend/internal/interfaces/http/middleware"
	"github.com/your-org/foodgram-backend/internal/interfaces/http/routes"
	"github.com/your-org/foodgram-backend/internal/pkg/metrics"
	"github.com/your-org/foodgram-backend/internal/pkg/pdf"
	"github.com/your-org/foodgram-backend/internal/pkg/validation"
)

// Server represents the HTTP server
type Server struct {
	config      *config.Config
	gin         *gin.Engine
	httpServer  *http.Server
	db          *postgres.Database
	redisClient *redisdb.Client
	images      recipe.ImageStore
	metrics     *metrics.Metrics
	logger      *logrus.Logger
	startedAt   time.Time
}

// NewServer creates a new HTTP server instance with middleware and routes installed.
// redisClient may be nil, which disables rate limiting.
func NewServer(cfg *config.Config, db *postgres.Database, redisClient *redisdb.Client, images recipe.ImageStore, m *metrics.Metrics, logger *logrus.Logger) *Server {
	// Set Gin mode based on environment
	switch {
	case cfg.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	case cfg.App.Environment == "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	validation.RegisterGin()

	s := &Server{
		config:      cfg,
		gin:         gin.New(),
		db:          db,
		redisClient: redisClient,
		images:      images,
		metrics:     m,
		logger:      logger,
		startedAt:   time.Now(),
	}

	if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
		logger.WithError(err).Warn("invalid trusted proxies, trusting none")
		_ = s.gin.SetTrustedProxies(nil)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler exposes the configured engine, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.Infof("🚀 HTTP Server starting on port %s", s.config.Server.Port)
	s.logger.Infof("🌐 API Base URL: http://localhost:%s/api/v1", s.config.Server.Port)
	s.logger.Infof("📊 Health Check: http://localhost:%s/health", s.config.Server.Port)

	// Start server
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("🛑 Shutting down HTTP server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("✅ HTTP server stopped gracefully")
	return nil
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware() {
	// Recovery middleware - recover from panics
	s.gin.Use(gin.Recovery())

	// Request ID middleware
	s.gin.Use(middleware.RequestID())

	// Custom logger middleware
	s.gin.Use(middleware.Logger(s.logger))

	// Prometheus request metrics
	s.gin.Use(middleware.Metrics(s.metrics))

	// CORS middleware
	s.gin.Use(middleware.CORS(s.config))

	// Security headers middleware
	s.gin.Use(middleware.SecurityHeaders(s.config.App.Name + " API"))

	// Rate limiting middleware
	s.gin.Use(middleware.RateLimit(s.config, s.redisClient.GetClient(), s.logger))

	// Request size limit middleware
	s.gin.Use(middleware.RequestSizeLimit(s.config.Server.MaxBodyBytes))

	// Timeout middleware
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

// setupRoutes configures all routes for the server
func (s *Server) setupRoutes() {
	// Health check endpoints (no auth required)
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)
	s.gin.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// Stored recipe images
	if strings.HasPrefix(s.config.Storage.BaseURL, "/") {
		s.gin.Static(s.config.Storage.BaseURL, s.config.Storage.LocalPath)
	}

	// API v1 routes
	apiV1 := s.gin.Group("/api/v1")

	handlerSet := routes.NewHandlers(routes.Dependencies{
		DB:      s.db.GetDB(),
		Config:  s.config,
		Images:  s.images,
		PDF:     pdf.NewService(s.config),
		Metrics: s.metrics,
		Logger:  s.logger,
	})
	routes.SetupRoutes(apiV1, handlerSet, s.config)

	// API root endpoint
	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     s.config.App.Name + " API",
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"users":       "/api/v1/users",
					"tags":        "/api/v1/tags",
					"ingredients": "/api/v1/ingredients",
					"recipes":     "/api/v1/recipes",
				},
			})
		})
	}
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	// Check database health
	if err := s.db.Health(ctx); err != nil {
		s.logger.WithError(err).Warn("database health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  "database ping failed",
		})
		return
	}

	// Check Redis health
	redisStatus := "disabled"
	if s.redisClient != nil {
		if err := s.redisClient.Health(ctx); err != nil {
			s.logger.WithError(err).Warn("redis health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "redis ping failed",
			})
			return
		}
		redisStatus = "ok"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
		"database":    "ok",
		"redis":       redisStatus,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}
