package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

// TestRedisCache_Connection tests Redis connection
func TestRedisCache_Connection(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	c, err := NewRedisCache(mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("failed to connect to Redis: %v", err)
	}
	defer c.Close()

	if c.client == nil {
		t.Error("expected client to be initialized")
	}
}

// TestRedisCache_ConnectionFailure tests connection errors
func TestRedisCache_ConnectionFailure(t *testing.T) {
	_, err := NewRedisCache("invalid:9999", "", 0)

	if err == nil {
		t.Error("expected connection error, got nil")
	}
}

// TestRedisCache_SetGet tests round-tripping a value
func TestRedisCache_SetGet(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	c, _ := NewRedisCache(mr.Addr(), "", 0)
	defer c.Close()

	ctx := context.Background()

	if err := c.Set(ctx, "geo_ip_leaderboard", `[{"ip":"8.8.8.8"}]`, 30*time.Second); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	val, err := c.Get(ctx, "geo_ip_leaderboard")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != `[{"ip":"8.8.8.8"}]` {
		t.Errorf("unexpected value: %s", val)
	}
}

// TestRedisCache_Get_Miss tests that an absent key returns ErrCacheMiss
func TestRedisCache_Get_Miss(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	c, _ := NewRedisCache(mr.Addr(), "", 0)
	defer c.Close()

	_, err := c.Get(context.Background(), "missing-key")

	if err == nil {
		t.Fatal("expected error for missing key, got nil")
	}
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss, got: %v", err)
	}
}

// TestRedisCache_TTLExpiry tests that values expire after their TTL
func TestRedisCache_TTLExpiry(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	c, _ := NewRedisCache(mr.Addr(), "", 0)
	defer c.Close()

	ctx := context.Background()

	if err := c.Set(ctx, "geo_ip_leaderboard", "payload", 30*time.Second); err != nil {
		t.Fatalf("failed to set: %v", err)
	}

	// Still present just before expiry
	mr.FastForward(29 * time.Second)
	if _, err := c.Get(ctx, "geo_ip_leaderboard"); err != nil {
		t.Fatalf("expected value before TTL expiry, got: %v", err)
	}

	// Gone after expiry
	mr.FastForward(2 * time.Second)
	_, err := c.Get(ctx, "geo_ip_leaderboard")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after TTL expiry, got: %v", err)
	}
}

// TestRedisCache_Delete tests explicit invalidation
func TestRedisCache_Delete(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	c, _ := NewRedisCache(mr.Addr(), "", 0)
	defer c.Close()

	ctx := context.Background()

	c.Set(ctx, "geo_ip_leaderboard", "payload", 30*time.Second)

	if err := c.Delete(ctx, "geo_ip_leaderboard"); err != nil {
		t.Fatalf("unexpected error on delete: %v", err)
	}

	_, err := c.Get(ctx, "geo_ip_leaderboard")
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected ErrCacheMiss after delete, got: %v", err)
	}
}

// TestRedisCache_Delete_AbsentKey tests deleting a key that does not exist
func TestRedisCache_Delete_AbsentKey(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	c, _ := NewRedisCache(mr.Addr(), "", 0)
	defer c.Close()

	if err := c.Delete(context.Background(), "never-set"); err != nil {
		t.Errorf("expected no error deleting absent key, got: %v", err)
	}
}

// TestRedisCache_Set_Overwrite tests overwriting an existing value
func TestRedisCache_Set_Overwrite(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	c, _ := NewRedisCache(mr.Addr(), "", 0)
	defer c.Close()

	ctx := context.Background()

	c.Set(ctx, "geo_ip_leaderboard", "old", 30*time.Second)
	c.Set(ctx, "geo_ip_leaderboard", "new", 30*time.Second)

	val, err := c.Get(ctx, "geo_ip_leaderboard")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != "new" {
		t.Errorf("expected 'new', got '%s'", val)
	}
}

// TestRedisCache_Close tests cleanup
func TestRedisCache_Close(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()

	c, _ := NewRedisCache(mr.Addr(), "", 0)

	if err := c.Close(); err != nil {
		t.Errorf("expected no error on close, got: %v", err)
	}
}

// TestRedisCache_Close_NilClient tests close with nil client
func TestRedisCache_Close_NilClient(t *testing.T) {
	c := &RedisCache{client: nil}

	if err := c.Close(); err != nil {
		t.Errorf("expected no error for nil client, got: %v", err)
	}
}
