package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/jhonatancruzmail/SkyConnectExplorer/airports"
	"github.com/jhonatancruzmail/SkyConnectExplorer/api"
	"github.com/jhonatancruzmail/SkyConnectExplorer/aviationstack"
	"github.com/jhonatancruzmail/SkyConnectExplorer/config"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/buildinfo"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/cache"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/health"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/logger"
	"github.com/jhonatancruzmail/SkyConnectExplorer/servercache"
	"github.com/jhonatancruzmail/SkyConnectExplorer/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err, "Failed to load configuration")
	}

	logger.Init(logger.Config{Level: cfg.LoggingConfig.Level, Format: cfg.LoggingConfig.Format})
	logger.Info("Configuration loaded", "environment", cfg.Environment, "version", buildinfo.Version, "commit", buildinfo.Commit)

	if cfg.AviationstackConfig.APIKey == "" {
		if cfg.IsProduction() {
			logger.Warn("AVIATIONSTACK_API_KEY is not set; airport requests will fail unless the persistent cache is warm")
		} else if cfg.FallbackAllowed() {
			logger.Warn("AVIATIONSTACK_API_KEY is not set; serving bundled sample airports")
		}
	}

	checker := health.NewHealthChecker(buildinfo.Version)

	opts := []servercache.Option{servercache.WithFallback(airports.NewSampleProvider())}
	var redisClient *redis.Client
	if cfg.CacheConfig.PersistentEnabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisConfig.Host, cfg.RedisConfig.Port),
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			// the coordinator treats persistent read/write failures as misses
			logger.Warn("Redis unavailable at startup", "addr", redisClient.Options().Addr, "error", err.Error())
		}
		cancel()

		opts = append(opts, servercache.WithPersistentCache(cache.NewRedisCache(redisClient, cfg.CacheConfig.KeyPrefix)))
		checker.AddChecker(&health.RedisChecker{Client: redisClient, Name: "redis"})
	}

	upstream := aviationstack.New(cfg.AviationstackConfig.Timeout, aviationstack.WithBaseURL(cfg.AviationstackConfig.BaseURL))
	coordinator := servercache.New(upstream, servercache.Settings{
		APIKey:          cfg.AviationstackConfig.APIKey,
		PageLimit:       cfg.AviationstackConfig.PageLimit,
		FallbackAllowed: cfg.FallbackAllowed(),
		RevalidateAfter: cfg.CacheConfig.RevalidateAfter,
	}, opts...)
	checker.AddChecker(&health.AirportCacheChecker{Cache: coordinator, Name: "airport_cache"})

	warmer := worker.NewWarmer(coordinator, worker.WarmerConfig{
		Schedule: cfg.CacheConfig.WarmSchedule,
		OnStart:  cfg.CacheConfig.WarmOnStart,
		Timeout:  cfg.AviationstackConfig.Timeout + 10*time.Second,
	}, nil)
	if err := warmer.Start(); err != nil {
		logger.Fatal(err, "Failed to start cache warmer")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	api.RegisterRoutes(router, coordinator, checker, cfg)

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTPBindAddr, cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(err, "Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	warmer.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error(err, "Server forced to shutdown")
	}

	logger.Info("Server exited properly")
}
