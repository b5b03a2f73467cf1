package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	Port string

	// Redis (cache + optional distributed rate limiting)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// MySQL (durable store)
	// DSN format: user:password@tcp(host:port)/dbname?parseTime=true
	MySQLDSN string

	// Geolocation (ipinfo.io)
	IPInfoToken   string
	IPInfoBaseURL string
	GeoTimeout    time.Duration

	// Leaderboard cache behavior
	CacheTTL         time.Duration
	LeaderboardLimit int

	// Rate limiting for the write endpoint
	RateLimitType   string // "memory" or "redis"
	RateLimit       int    // number of requests allowed
	RateLimitWindow int    // time window in seconds
}

// Load reads configuration from environment variables with sensible
// defaults. A .env file is honored for local development; in
// production/Docker the environment is set directly.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		Port: getEnv("PORT", "3000"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		MySQLDSN: getEnv("MYSQL_DSN", ""),

		IPInfoToken:   getEnv("IPINFO_TOKEN", ""),
		IPInfoBaseURL: getEnv("IPINFO_BASE_URL", "https://ipinfo.io"),
		GeoTimeout:    getEnvAsDuration("GEO_TIMEOUT_SECONDS", 3*time.Second),

		CacheTTL:         getEnvAsDuration("CACHE_TTL_SECONDS", 30*time.Second),
		LeaderboardLimit: getEnvAsInt("LEADERBOARD_LIMIT", 100),

		RateLimitType:   getEnv("RATE_LIMITER_TYPE", "memory"),
		RateLimit:       getEnvAsInt("RATE_LIMIT", 10),
		RateLimitWindow: getEnvAsInt("RATE_LIMIT_WINDOW", 1),
	}
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt reads an environment variable as an integer.
// Returns default if not set or invalid.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsDuration reads an environment variable holding a number of
// seconds. Returns default if not set or invalid.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	seconds, err := strconv.Atoi(valueStr)
	if err != nil || seconds <= 0 {
		return defaultValue
	}

	return time.Duration(seconds) * time.Second
}
