package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gilby125/aviator/config"
	"github.com/gilby125/aviator/pkg/cache"
	"github.com/gilby125/aviator/pkg/logger"
	"github.com/gilby125/aviator/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Format: "text", Output: &buf})

	r := gin.New()
	r.Use(RequestID(), RequestLogger(log))
	r.GET("/ping", func(c *gin.Context) {
		assert.Equal(t, GetRequestID(c), logger.RequestIDFromContext(c.Request.Context()))
		c.String(http.StatusOK, "pong")
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "request_id="+id)

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, incoming)
	assert.Equal(t, incoming, serve(r, req).Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid\nInjected: yes")
	assert.NotEqual(t, "not-a-uuid\nInjected: yes", serve(r, req).Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Format: "text", Output: &buf})

	r := gin.New()
	r.Use(Recovery(log))
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, buf.String(), "Panic recovered")
}

func TestAdminAuth(t *testing.T) {
	cfg := config.AdminAuthConfig{Enabled: true, Username: "admin", Password: "pw", Token: "tok"}

	r := gin.New()
	r.POST("/admin", AdminAuth(cfg), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	tests := []struct {
		name  string
		setup func(*http.Request)
		want  int
	}{
		{"no credentials", func(*http.Request) {}, http.StatusUnauthorized},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer tok") }, http.StatusNoContent},
		{"wrong bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"basic", func(r *http.Request) { r.SetBasicAuth("admin", "pw") }, http.StatusNoContent},
		{"wrong basic", func(r *http.Request) { r.SetBasicAuth("admin", "x") }, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin", nil)
			tt.setup(req)
			assert.Equal(t, tt.want, serve(r, req).Code)
		})
	}

	open := gin.New()
	open.POST("/admin", AdminAuth(config.AdminAuthConfig{}), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	assert.Equal(t, http.StatusNoContent, serve(open, httptest.NewRequest(http.MethodPost, "/admin", nil)).Code)
}

func TestMetrics(t *testing.T) {
	m := metrics.NewMetricsWith("test", prometheus.NewRegistry())

	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/api/v1/airports/:code", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/airports/FRA", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/api/v1/airports/MUC", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/v1/airports/:code", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestResponseCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	cm := cache.NewCacheManager(cache.NewRedisCache(rdb, "test"))
	log := logger.New(logger.Config{Output: &bytes.Buffer{}})

	calls := 0
	r := gin.New()
	r.GET("/airports/:code", ResponseCache(cm, CacheConfig{TTL: time.Minute, KeyPrefix: "http"}, log), func(c *gin.Context) {
		calls++
		if c.Param("code") == "QQQ" {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": c.Param("code")})
	})

	first := serve(r, httptest.NewRequest(http.MethodGet, "/airports/FRA", nil))
	second := serve(r, httptest.NewRequest(http.MethodGet, "/airports/FRA", nil))

	assert.Equal(t, 1, calls)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	serve(r, httptest.NewRequest(http.MethodGet, "/airports/QQQ", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/airports/QQQ", nil))
	assert.Equal(t, 3, calls, "errors are not cached")

	uncached := gin.New()
	uncached.GET("/x", ResponseCache(nil, CacheConfig{}, log), func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	assert.Empty(t, serve(uncached, httptest.NewRequest(http.MethodGet, "/x", nil)).Header().Get("X-Cache"))
}
