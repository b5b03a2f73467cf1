package limiter

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements distributed rate limiting using Redis, for
// deployments where limits must be shared across all instances.
//
// Counters live in windowed keys ("ratelimit:{ip}:{window}") with a TTL
// for automatic cleanup; increments run in a Lua script so the
// check-and-count is atomic.
type RedisLimiter struct {
	client         *redis.Client
	requestsPerSec float64
	windowSize     time.Duration
}

// NewRedisLimiter creates a new Redis-based rate limiter.
//
// Parameters:
//   - addr: Redis server address (e.g., "localhost:6379")
//   - password: Redis password (empty string if no password)
//   - db: Redis database number
//   - requestsPerSecond: allowed rate per IP (fractional rates are fine)
func NewRedisLimiter(addr, password string, db int, requestsPerSecond float64) (*RedisLimiter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %w", err)
	}

	// Fractional rates get a proportionally longer window:
	// 0.2 req/s -> one 5-second window.
	windowSize := time.Second
	if requestsPerSecond < 1.0 {
		windowSize = time.Duration(float64(time.Second) / requestsPerSecond)
	}

	return &RedisLimiter{
		client:         client,
		requestsPerSec: requestsPerSecond,
		windowSize:     windowSize,
	}, nil
}

// Allow checks and counts a request from ip. On any Redis error the
// limiter fails open rather than blocking legitimate traffic.
func (rl *RedisLimiter) Allow(ip string) bool {
	now := time.Now()
	windowSeconds := int64(rl.windowSize.Seconds())
	window := now.Unix() / windowSeconds
	key := fmt.Sprintf("ratelimit:%s:%d", ip, window)

	luaScript := `
		local key = KEYS[1]
		local limit = tonumber(ARGV[1])
		local ttl = tonumber(ARGV[2])

		local current = redis.call('INCR', key)

		if current == 1 then
			redis.call('EXPIRE', key, ttl)
		end

		return current
	`

	result, err := rl.client.Eval(context.Background(), luaScript, []string{key}, rl.requestsPerSec, int(rl.windowSize.Seconds())*2).Result()
	if err != nil {
		return true
	}

	count, ok := result.(int64)
	if !ok {
		return true
	}

	limit := int64(math.Ceil(rl.requestsPerSec * rl.windowSize.Seconds()))
	return count <= limit
}

// Close closes the Redis connection.
func (rl *RedisLimiter) Close() error {
	if rl.client != nil {
		return rl.client.Close()
	}
	return nil
}
