package testutil

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/your-org/foodgram-backend/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// JWTSecret signs every token minted in tests
const JWTSecret = "test-secret-0123456789abcdef0123456789"

// Config returns a configuration suitable for tests. Images go to a per-test temp dir.
func Config(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		App: config.AppConfig{Name: "Foodgram", Version: "test", Environment: "test"},
		Server: config.ServerConfig{
			Port:           "0",
			RequestTimeout: 5 * time.Second,
			MaxBodyBytes:   10 << 20,
		},
		JWT: config.JWTConfig{Secret: JWTSecret},
		Security: config.SecurityConfig{
			BcryptCost:         bcrypt.MinCost,
			RateLimitPerMinute: 1000,
			CORSAllowedOrigins: []string{"http://localhost:3000"},
			CORSAllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			CORSAllowedHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		},
		Storage: config.StorageConfig{
			LocalPath:      t.TempDir(),
			BaseURL:        "/media",
			MaxImageBytes:  1 << 20,
			ImageMaxWidth:  64,
			ImageMaxHeight: 64,
		},
		Pagination: config.PaginationConfig{DefaultLimit: 6, MaxLimit: 100},
		Logging:    config.LoggingConfig{Level: "debug", Format: "text"},
	}
}

// Logger returns a logger that records entries instead of printing them
func Logger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}
