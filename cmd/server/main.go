package main

import (
	"fmt"
	"net/http"

	"github.com/evyataryagoni/geoip-leaderboard/internal/cache"
	"github.com/evyataryagoni/geoip-leaderboard/internal/config"
	"github.com/evyataryagoni/geoip-leaderboard/internal/geo"
	"github.com/evyataryagoni/geoip-leaderboard/internal/handler"
	"github.com/evyataryagoni/geoip-leaderboard/internal/limiter"
	"github.com/evyataryagoni/geoip-leaderboard/internal/logger"
	"github.com/evyataryagoni/geoip-leaderboard/internal/metrics"
	"github.com/evyataryagoni/geoip-leaderboard/internal/router"
	"github.com/evyataryagoni/geoip-leaderboard/internal/service"
	"github.com/evyataryagoni/geoip-leaderboard/internal/store"
)

func main() {
	// Load configuration
	appConfig := config.Load()

	// Initialize components
	appLogger := setupLogger(appConfig)

	dataStore := setupStore(appConfig, appLogger)
	defer dataStore.Close()

	leaderboardCache := setupCache(appConfig, appLogger)
	defer leaderboardCache.Close()

	resolver := geo.NewIPInfoResolver(appConfig.IPInfoBaseURL, appConfig.IPInfoToken, appConfig.GeoTimeout, appLogger)

	rateLimiter := setupRateLimiter(appConfig, appLogger)
	defer rateLimiter.Close()

	metricsCollector := metrics.New()

	// Build application layers
	lbService := service.NewLeaderboardService(dataStore, leaderboardCache, resolver, metricsCollector, appLogger, service.Options{
		CacheTTL: appConfig.CacheTTL,
		Limit:    appConfig.LeaderboardLimit,
	})
	lbHandler := handler.NewLeaderboardHandler(lbService)
	appRouter := router.SetupRouter(lbHandler, rateLimiter, metricsCollector, appLogger)

	// Start server
	startServer(appConfig, appRouter, appLogger)
}

// setupLogger initializes the structured logger
func setupLogger(appConfig *config.Config) *logger.Logger {
	appLogger := logger.New(logger.Config{
		Level:  "info",
		Pretty: true,
	})

	appLogger.Info().Msg("Starting GeoIP Leaderboard Server...")
	appLogger.Info().
		Str("port", appConfig.Port).
		Str("redis_addr", appConfig.RedisAddr).
		Dur("cache_ttl", appConfig.CacheTTL).
		Int("leaderboard_limit", appConfig.LeaderboardLimit).
		Str("rate_limiter_type", appConfig.RateLimitType).
		Int("rate_limit", appConfig.RateLimit).
		Int("rate_limit_window", appConfig.RateLimitWindow).
		Msg("Configuration loaded")

	return appLogger
}

// setupStore connects the durable MySQL store
func setupStore(appConfig *config.Config, log *logger.Logger) store.Store {
	dataStore, err := store.NewMySQLStore(appConfig.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize MySQL store")
	}

	fmt.Println("✅ MySQL store initialized")
	return dataStore
}

// setupCache connects the Redis leaderboard cache
func setupCache(appConfig *config.Config, log *logger.Logger) cache.Cache {
	leaderboardCache, err := cache.NewRedisCache(appConfig.RedisAddr, appConfig.RedisPassword, appConfig.RedisDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Redis cache")
	}

	fmt.Println("✅ Redis cache initialized")
	return leaderboardCache
}

// setupRateLimiter initializes the rate limiter for the write endpoint
func setupRateLimiter(appConfig *config.Config, log *logger.Logger) limiter.Limiter {
	// Effective rate in requests per second:
	// 10 requests per 5 seconds = 2.0 req/s
	effectiveRate := float64(appConfig.RateLimit) / float64(appConfig.RateLimitWindow)

	rateLimiter, err := limiter.NewLimiter(limiter.LimiterConfig{
		Type:              appConfig.RateLimitType,
		RequestsPerSecond: effectiveRate,
		RedisAddr:         appConfig.RedisAddr,
		RedisPassword:     appConfig.RedisPassword,
		RedisDB:           appConfig.RedisDB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize rate limiter")
	}

	fmt.Printf("✅ Rate limiter initialized (type: %s, limit: %d req per %d sec = %.2f req/s)\n",
		appConfig.RateLimitType, appConfig.RateLimit, appConfig.RateLimitWindow, effectiveRate)

	return rateLimiter
}

// startServer starts the HTTP server and blocks
func startServer(appConfig *config.Config, appRouter http.Handler, log *logger.Logger) {
	serverAddr := ":" + appConfig.Port

	log.Info().
		Str("port", appConfig.Port).
		Str("leaderboard", "http://localhost:"+appConfig.Port+"/leaderboard").
		Str("track", "http://localhost:"+appConfig.Port+"/track").
		Str("health_check", "http://localhost:"+appConfig.Port+"/health").
		Str("metrics", "http://localhost:"+appConfig.Port+"/metrics").
		Msg("Server is running")

	log.Fatal().Err(http.ListenAndServe(serverAddr, appRouter)).Msg("Server failed")
}
