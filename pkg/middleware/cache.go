package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gilby125/aviator/pkg/cache"
	"github.com/gilby125/aviator/pkg/logger"
)

// CacheConfig holds cache middleware configuration
type CacheConfig struct {
	TTL       time.Duration
	KeyPrefix string
}

// CachedResponse represents a cached HTTP response
type CachedResponse struct {
	StatusCode  int       `json:"status_code"`
	Body        []byte    `json:"body"`
	ContentType string    `json:"content_type"`
	CachedAt    time.Time `json:"cached_at"`
}

// responseWriter wraps gin.ResponseWriter to capture response body
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

// ResponseCache caches successful JSON GET responses of the routes it wraps.
// A nil cacheManager disables it.
func ResponseCache(cacheManager *cache.CacheManager, cfg CacheConfig, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cacheManager == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := cacheKey(cfg.KeyPrefix, c.Request)

		var cached CachedResponse
		err := cacheManager.GetJSON(c.Request.Context(), key, &cached)
		if err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(cached.StatusCode, cached.ContentType, cached.Body)
			c.Abort()
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.WithField("cache_key", key).Error(err, "Cache get error")
		}

		body := &bytes.Buffer{}
		c.Writer = &responseWriter{ResponseWriter: c.Writer, body: body}
		c.Header("X-Cache", "MISS")
		c.Next()

		status := c.Writer.Status()
		contentType := c.Writer.Header().Get("Content-Type")
		if status < 200 || status >= 300 || !strings.Contains(contentType, "application/json") {
			return
		}
		entry := CachedResponse{
			StatusCode:  status,
			Body:        body.Bytes(),
			ContentType: contentType,
			CachedAt:    time.Now(),
		}
		if err := cacheManager.SetJSON(c.Request.Context(), key, entry, cfg.TTL); err != nil {
			log.WithField("cache_key", key).Error(err, "Cache set error")
		}
	}
}

// cacheKey hashes method, path, query and Accept-Language.
func cacheKey(prefix string, req *http.Request) string {
	h := sha256.New()
	h.Write([]byte(req.Method + " " + req.URL.Path + "?" + req.URL.RawQuery + "|" + req.Header.Get("Accept-Language")))
	sum := hex.EncodeToString(h.Sum(nil))[:32]
	if prefix != "" {
		return prefix + ":response:" + sum
	}
	return "response:" + sum
}
