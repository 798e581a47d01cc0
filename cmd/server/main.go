package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/kdigolf/caddie/internal/api"
	"github.com/kdigolf/caddie/internal/api/middleware"
	"github.com/kdigolf/caddie/internal/geodata"
	"github.com/kdigolf/caddie/internal/services"
	"github.com/kdigolf/caddie/pkg/config"
	"github.com/kdigolf/caddie/pkg/database"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	logger := logrus.StandardLogger()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Connect to Redis. The cache is an accelerator, not a dependency: the
	// service runs degraded without it.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logrus.Fatalf("Failed to parse Redis URL: %v", err)
		}
		client := redis.NewClient(opt)
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.WithError(err).Warn("Redis unreachable, running without cache")
			client.Close()
		} else {
			redisClient = client
			defer redisClient.Close()
		}
	}
	cacheService := services.NewCacheService(redisClient)

	// Initialize services
	provider := services.NewCachedProvider(
		geodata.NewPostGISProvider(db, logger),
		cacheService,
		time.Duration(cfg.GeodataCacheTTL)*time.Second,
		logger,
	)
	statsService := services.NewPlayerStatsService(db, cacheService, logger,
		time.Duration(cfg.PlayerCacheTTL)*time.Second)
	weatherService := services.NewWeatherService(services.WeatherConfig{
		BaseURL:           cfg.WeatherAPIURL,
		Timeout:           cfg.ExternalAPITimeout,
		CacheTTL:          time.Duration(cfg.WeatherCacheTTL) * time.Second,
		BreakerThreshold:  uint32(cfg.CircuitBreakerThreshold),
		RequestsPerMinute: cfg.WeatherRateLimit,
	}, cacheService, logger)

	// Start the aggregate refresher
	if cfg.EnableBackgroundJobs {
		interval, err := time.ParseDuration(cfg.StatsRefreshInterval)
		if err != nil {
			logrus.Warnf("Invalid stats refresh interval, using default 6h: %v", err)
			interval = 6 * time.Hour
		}
		refresher := services.NewStatsRefresher(statsService, logger, interval, cfg.StatsRefreshBatchSize)
		if err := refresher.Start(); err != nil {
			logrus.Errorf("Failed to start stats refresher: %v", err)
		}
		defer refresher.Stop()
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))
	router.Use(middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Middleware())

	// Setup API routes under /api/v1
	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, db, cacheService, provider, statsService, weatherService, cfg, logger)

	// Setup server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
