package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("APP_ENV", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 6, cfg.Pagination.DefaultLimit)
	assert.Equal(t, 100, cfg.Pagination.MaxLimit)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SERVER_REQUEST_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "6543")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORSAllowedOrigins)
	assert.Contains(t, cfg.GetDatabaseDSN(), "host=db port=6543")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:     ServerConfig{Port: "8080"},
			Database:   DatabaseConfig{Host: "localhost", Name: "foodgram", User: "foodgram"},
			Redis:      RedisConfig{Host: "localhost"},
			JWT:        JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
			Pagination: PaginationConfig{DefaultLimit: 6, MaxLimit: 100},
		}
	}

	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"short secret":     func(c *Config) { c.JWT.Secret = "short" },
		"missing db host":  func(c *Config) { c.Database.Host = "" },
		"missing db name":  func(c *Config) { c.Database.Name = "" },
		"missing db user":  func(c *Config) { c.Database.User = "" },
		"missing redis":    func(c *Config) { c.Redis.Host = "" },
		"missing port":     func(c *Config) { c.Server.Port = "" },
		"bad page default": func(c *Config) { c.Pagination.DefaultLimit = 0 },
		"max below default": func(c *Config) {
			c.Pagination.DefaultLimit = 10
			c.Pagination.MaxLimit = 5
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
