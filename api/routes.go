// Package api is the HTTP surface: itinerary building, airport and airline
// lookups, override refresh, health and metrics.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gilby125/aviator/airlines"
	"github.com/gilby125/aviator/config"
	"github.com/gilby125/aviator/itinerary"
	"github.com/gilby125/aviator/overrides"
	"github.com/gilby125/aviator/pkg/buildinfo"
	"github.com/gilby125/aviator/pkg/cache"
	"github.com/gilby125/aviator/pkg/health"
	"github.com/gilby125/aviator/pkg/logger"
	"github.com/gilby125/aviator/pkg/metrics"
	"github.com/gilby125/aviator/pkg/middleware"
)

// OverrideRefresher is the part of overrides.Refresher the admin route uses.
type OverrideRefresher interface {
	Refresh(ctx context.Context, force bool) (int, error)
	Source() string
}

// Deps are the collaborators of the HTTP handlers. Refresher, Metrics and
// Cache may be nil. Cache is the lookup namespace; an admin refresh clears
// it.
type Deps struct {
	Config    *config.Config
	Airports  itinerary.Airports
	Airlines  *airlines.Table
	Overrides *overrides.Store
	Refresher OverrideRefresher
	Health    *health.HealthChecker
	Metrics   *metrics.Metrics
	Cache     *cache.CacheManager
	Logger    *logger.Logger
	Now       func() time.Time
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, d Deps) {
	if d.Logger == nil {
		d.Logger = logger.Default()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Overrides == nil {
		d.Overrides = overrides.NewStore(nil)
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(d.Logger))
	router.Use(middleware.Recovery(d.Logger))
	router.Use(middleware.Metrics(d.Metrics))

	router.GET("/health", healthHandler(d.Health, (*health.HealthChecker).CheckHealth))
	router.GET("/health/ready", healthHandler(d.Health, (*health.HealthChecker).CheckReadiness))
	router.GET("/health/live", healthHandler(d.Health, (*health.HealthChecker).CheckLiveness))
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, buildinfo.Info())
	})
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	airlineCache := middleware.ResponseCache(d.Cache, middleware.CacheConfig{
		TTL:       cache.MediumTTL,
		KeyPrefix: "http",
	}, d.Logger)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/itinerary", BuildItinerary(d))
		v1.GET("/airports/:code", GetAirport(d))
		v1.GET("/airlines/:code", airlineCache, GetAirline(d))

		admin := v1.Group("/admin", middleware.AdminAuth(d.Config.AdminAuthConfig))
		{
			admin.POST("/overrides/refresh", RefreshOverrides(d))
		}
	}
}

func healthHandler(h *health.HealthChecker, check func(*health.HealthChecker, context.Context) health.HealthReport) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h == nil {
			c.JSON(http.StatusOK, gin.H{"status": health.StatusUp})
			return
		}
		report := check(h, c.Request.Context())
		status := http.StatusOK
		if report.Status != health.StatusUp {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	}
}
