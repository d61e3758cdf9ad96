package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/foodgram-backend/internal/interfaces/http/middleware"
	"github.com/your-org/foodgram-backend/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testutil.Config(t)

	r := gin.New()
	r.GET("/private", middleware.AuthMiddleware(cfg), func(c *gin.Context) {
		id, ok := middleware.GetUserIDFromContext(c)
		require.True(t, ok)
		c.String(http.StatusOK, "%d", id)
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
		{"valid token", "Bearer " + testutil.AccessToken(t, 42, "cook@example.com"), http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := serve(r, req)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "42", w.Body.String())
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	cfg := testutil.Config(t)

	r := gin.New()
	r.GET("/feed", middleware.OptionalAuthMiddleware(cfg), func(c *gin.Context) {
		c.String(http.StatusOK, "%d", middleware.ViewerID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	assert.Equal(t, "0", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer expired-or-broken")
	w := serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer "+testutil.AccessToken(t, 7, "reader@example.com"))
	assert.Equal(t, "7", serve(r, req).Body.String())
}

func TestRateLimitFailsOpen(t *testing.T) {
	cfg := testutil.Config(t)
	logger, hook := testutil.Logger()

	// Nothing listens on this port
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	r := gin.New()
	r.Use(middleware.RateLimit(cfg, client, logger))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "rate limiter unavailable, allowing request", hook.LastEntry().Message)
}

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	cfg := testutil.Config(t)
	logger, hook := testutil.Logger()

	r := gin.New()
	r.Use(middleware.RateLimit(cfg, nil, logger))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	assert.Empty(t, hook.AllEntries())
}

func TestRequestSizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestSizeLimit(16))
	r.POST("/", func(c *gin.Context) {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	small := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"b"}`))
	assert.Equal(t, http.StatusOK, serve(r, small).Code)

	large := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"`+strings.Repeat("x", 64)+`"}`))
	assert.Equal(t, http.StatusRequestEntityTooLarge, serve(r, large).Code)

	// Unknown length is cut off by the reader
	chunked := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"`+strings.Repeat("x", 64)+`"}`))
	chunked.ContentLength = -1
	assert.Equal(t, http.StatusBadRequest, serve(r, chunked).Code)
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Timeout(20 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusGatewayTimeout, serve(r, httptest.NewRequest(http.MethodGet, "/slow", nil)).Code)
	assert.Equal(t, http.StatusOK, serve(r, httptest.NewRequest(http.MethodGet, "/fast", nil)).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "%s", c.GetString(middleware.ContextRequestID))
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(middleware.RequestIDHeader), 36)
	assert.Equal(t, w.Header().Get(middleware.RequestIDHeader), w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "upstream-1")
	assert.Equal(t, "upstream-1", serve(r, req).Header().Get(middleware.RequestIDHeader))
}
