package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/gilby125/aviator/airlines"
	"github.com/gilby125/aviator/api"
	"github.com/gilby125/aviator/config"
	"github.com/gilby125/aviator/db"
	"github.com/gilby125/aviator/iata"
	"github.com/gilby125/aviator/overrides"
	"github.com/gilby125/aviator/pkg/buildinfo"
	"github.com/gilby125/aviator/pkg/cache"
	"github.com/gilby125/aviator/pkg/health"
	"github.com/gilby125/aviator/pkg/leader"
	"github.com/gilby125/aviator/pkg/logger"
	"github.com/gilby125/aviator/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err, "Failed to load configuration")
	}

	logger.Init(logger.Config{
		Level:  cfg.LoggingConfig.Level,
		Format: cfg.LoggingConfig.Format,
	})
	log := logger.Default()
	log.Info("Starting aviator", "version", buildinfo.Version, "environment", cfg.Environment)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	airlineTable := airlines.Default()
	if cfg.AirlinesFile != "" {
		airlineTable, err = airlines.LoadFile(cfg.AirlinesFile)
		if err != nil {
			log.Fatal(err, "Failed to load airlines file", "path", cfg.AirlinesFile)
		}
	}

	healthChecker := health.NewHealthChecker(buildinfo.Version)
	healthChecker.AddChecker(&health.TableChecker{Name: "airports", Len: iata.Len, Required: true})
	healthChecker.AddChecker(&health.TableChecker{Name: "airlines", Len: airlineTable.Len})

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.NewMetrics("aviator")
	}

	var (
		cacheManager *cache.CacheManager
		lookupCache  *cache.CacheManager
		elector      *leader.Elector
	)
	if cfg.RedisConfig.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Addr(),
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unavailable, continuing without shared cache", "addr", cfg.RedisConfig.Addr(), "error", err)
		} else {
			cacheManager = cache.NewCacheManager(cache.NewRedisCache(client, cfg.RedisConfig.KeyPrefix))
			lookupCache = cache.NewCacheManager(cache.NewRedisCache(client, cfg.RedisConfig.KeyPrefix+":lookup"))
			healthChecker.AddChecker(&health.RedisChecker{Client: client, Name: "redis"})
			elector = leader.New(client, cfg.RedisConfig.KeyPrefix+":overrides:leader", 30*time.Second, 10*time.Second, log)
			elector.Start()
			defer elector.Stop()
		}
	}

	store := overrides.NewStore(nil)
	healthChecker.AddChecker(&health.TableChecker{Name: "overrides", Len: func() int { return store.Snapshot().Len() }})

	var source overrides.Source
	switch cfg.OverridesConfig.Source {
	case config.OverridesSourceHTTP:
		oc := cfg.OverridesConfig
		source = &overrides.HTTPSource{Fetcher: overrides.NewFetcher(oc.URL, oc.CachePath, oc.MaxAge, oc.Timeout)}
	case config.OverridesSourcePostgres:
		postgresDB, err := db.NewPostgresDB(cfg.PostgresConfig)
		if err != nil {
			log.Fatal(err, "Failed to connect to PostgreSQL")
		}
		defer postgresDB.Close()
		if err := postgresDB.InitSchema(ctx); err != nil {
			log.Fatal(err, "Failed to initialize PostgreSQL schema")
		}
		healthChecker.AddChecker(&health.PostgresChecker{DB: postgresDB, Name: "postgres"})
		source = &overrides.PostgresSource{DB: postgresDB}
	}

	var refresher *overrides.Refresher
	if source != nil {
		opts := []overrides.RefresherOption{overrides.WithLogger(log), overrides.WithMetrics(m)}
		if cacheManager != nil {
			opts = append(opts,
				overrides.WithShared(overrides.NewRedisStore(cacheManager, cfg.OverridesConfig.MaxAge)),
				overrides.WithLeader(elector.IsLeader),
			)
		}
		refresher = overrides.NewRefresher(source, store, opts...)

		// A failed first load leaves the table empty; names fall back to
		// the airport city.
		if _, err := refresher.Refresh(ctx, false); err != nil {
			log.Warn("Initial overrides load failed", "error", err)
		}
		if err := refresher.Start(ctx, cfg.OverridesConfig.RefreshCron); err != nil {
			log.Fatal(err, "Failed to schedule overrides refresh")
		}
		defer refresher.Stop()
	}

	deps := api.Deps{
		Config:    cfg,
		Airports:  iata.Default,
		Airlines:  airlineTable,
		Overrides: store,
		Health:    healthChecker,
		Metrics:   m,
		Cache:     lookupCache,
		Logger:    log,
	}
	// A nil *Refresher inside the interface would not compare equal to nil.
	if refresher != nil {
		deps.Refresher = refresher
	}

	router := gin.New()
	api.RegisterRoutes(router, deps)

	srv := &http.Server{
		Addr:              cfg.HTTPBindAddr + ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "Server forced to shutdown")
		os.Exit(1)
	}

	log.Info("Server exited properly")
}
