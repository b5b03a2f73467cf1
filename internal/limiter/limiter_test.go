package limiter

import (
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

// TestMemoryLimiter_BasicRateLimit tests basic rate limiting
func TestMemoryLimiter_BasicRateLimit(t *testing.T) {
	lim := NewMemoryLimiter(5)
	defer lim.Close()

	ip := "192.168.1.1"

	for i := 0; i < 5; i++ {
		if !lim.Allow(ip) {
			t.Errorf("request %d should be allowed", i+1)
		}
	}

	if lim.Allow(ip) {
		t.Error("request 6 should be rate limited")
	}

	// Wait for refill
	time.Sleep(1100 * time.Millisecond)

	if !lim.Allow(ip) {
		t.Error("request should be allowed after refill")
	}
}

// TestMemoryLimiter_PerIPIsolation tests that different IPs have separate limits
func TestMemoryLimiter_PerIPIsolation(t *testing.T) {
	lim := NewMemoryLimiter(3)
	defer lim.Close()

	ip1 := "192.168.1.1"
	ip2 := "192.168.1.2"

	for i := 0; i < 3; i++ {
		if !lim.Allow(ip1) {
			t.Errorf("request %d for IP1 should be allowed", i+1)
		}
	}

	if lim.Allow(ip1) {
		t.Error("IP1 should be rate limited")
	}

	// IP2 has its own bucket
	for i := 0; i < 3; i++ {
		if !lim.Allow(ip2) {
			t.Errorf("request %d for IP2 should be allowed", i+1)
		}
	}

	if lim.Allow(ip2) {
		t.Error("IP2 should be rate limited")
	}
}

// TestMemoryLimiter_Concurrency tests thread safety
func TestMemoryLimiter_Concurrency(t *testing.T) {
	lim := NewMemoryLimiter(100)
	defer lim.Close()

	ip := "192.168.1.1"
	allowedCount := 0
	var mu sync.Mutex
	var wg sync.WaitGroup

	// Double the limit; only about the limit should pass
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if lim.Allow(ip) {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	if allowedCount < 95 || allowedCount > 105 {
		t.Errorf("expected ~100 allowed requests, got %d", allowedCount)
	}
}

// TestMemoryLimiter_FractionalRate tests rates below 1 req/s
func TestMemoryLimiter_FractionalRate(t *testing.T) {
	lim := NewMemoryLimiter(0.5)
	defer lim.Close()

	ip := "192.168.1.1"

	// Capacity is clamped to 1, so exactly one request passes
	if !lim.Allow(ip) {
		t.Error("first request should be allowed")
	}
	if lim.Allow(ip) {
		t.Error("second immediate request should be rate limited")
	}
}

// TestTokenBucket_StartsFull tests the initial bucket state
func TestTokenBucket_StartsFull(t *testing.T) {
	tb := NewTokenBucket(2, 2)

	if !tb.Allow() || !tb.Allow() {
		t.Error("expected a full bucket to allow capacity requests")
	}
	if tb.Allow() {
		t.Error("expected an empty bucket to deny")
	}
}

// TestRedisLimiter_BasicRateLimit tests the distributed limiter against miniredis
func TestRedisLimiter_BasicRateLimit(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	lim, err := NewRedisLimiter(mr.Addr(), "", 0, 3)
	if err != nil {
		t.Fatalf("failed to create Redis limiter: %v", err)
	}
	defer lim.Close()

	ip := "192.168.1.1"

	for i := 0; i < 3; i++ {
		if !lim.Allow(ip) {
			t.Errorf("request %d should be allowed", i+1)
		}
	}

	if lim.Allow(ip) {
		t.Error("request 4 should be rate limited")
	}
}

// TestRedisLimiter_FailOpen tests that Redis errors allow the request
func TestRedisLimiter_FailOpen(t *testing.T) {
	mr, _ := miniredis.Run()

	lim, err := NewRedisLimiter(mr.Addr(), "", 0, 1)
	if err != nil {
		t.Fatalf("failed to create Redis limiter: %v", err)
	}
	defer lim.Close()

	// Kill the server; the limiter should fail open
	mr.Close()

	if !lim.Allow("192.168.1.1") {
		t.Error("expected fail-open when Redis is unreachable")
	}
}

// TestRedisLimiter_ConnectionFailure tests construction against a dead address
func TestRedisLimiter_ConnectionFailure(t *testing.T) {
	_, err := NewRedisLimiter("invalid:9999", "", 0, 1)

	if err == nil {
		t.Error("expected connection error, got nil")
	}
}

// TestNewLimiter_Factory tests the factory switch
func TestNewLimiter_Factory(t *testing.T) {
	tests := []struct {
		name      string
		limType   string
		expectErr bool
	}{
		{"memory", "memory", false},
		{"empty defaults to memory", "", false},
		{"mixed case", "Memory", false},
		{"unknown", "zookeeper", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lim, err := NewLimiter(LimiterConfig{
				Type:              tt.limType,
				RequestsPerSecond: 1,
			})

			if tt.expectErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer lim.Close()

			if _, ok := lim.(*MemoryLimiter); !ok {
				t.Errorf("expected *MemoryLimiter, got %T", lim)
			}
		})
	}
}

// TestNewLimiter_Redis tests the factory's Redis branch
func TestNewLimiter_Redis(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	lim, err := NewLimiter(LimiterConfig{
		Type:              "redis",
		RequestsPerSecond: 1,
		RedisAddr:         mr.Addr(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer lim.Close()

	if _, ok := lim.(*RedisLimiter); !ok {
		t.Errorf("expected *RedisLimiter, got %T", lim)
	}
}
