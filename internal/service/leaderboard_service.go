package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evyataryagoni/geoip-leaderboard/internal/cache"
	"github.com/evyataryagoni/geoip-leaderboard/internal/geo"
	"github.com/evyataryagoni/geoip-leaderboard/internal/logger"
	"github.com/evyataryagoni/geoip-leaderboard/internal/metrics"
	"github.com/evyataryagoni/geoip-leaderboard/internal/models"
	"github.com/evyataryagoni/geoip-leaderboard/internal/store"
	"github.com/go-playground/validator/v10"
)

// CacheKey is the fixed Redis key holding the serialized leaderboard.
// It is shared with any other process that invalidates the cache.
const CacheKey = "geo_ip_leaderboard"

// Default behavior when no options are given.
const (
	DefaultCacheTTL         = 30 * time.Second
	DefaultLeaderboardLimit = 100
)

// Sentinel errors returned by the service. Callers map them to HTTP
// status codes with errors.Is.
var (
	// ErrInvalidInput means the submitted IP is missing or not a
	// dotted-quad IPv4 address. Never retried.
	ErrInvalidInput = errors.New("invalid IP address format")

	// ErrStoreUnavailable means the durable store rejected a query or
	// upsert. The cache is never consulted as a fallback.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// LeaderboardService orchestrates the two-tier read/write path:
// reads go cache-first and repopulate on miss, writes upsert the store
// and invalidate the cached snapshot.
type LeaderboardService struct {
	store     store.Store
	cache     cache.Cache
	resolver  geo.Resolver
	validator *validator.Validate
	metrics   *metrics.Metrics
	logger    *logger.Logger
	cacheTTL  time.Duration
	limit     int
}

// Options tunes cache behavior. Zero values fall back to the defaults
// (30 second TTL, top 100).
type Options struct {
	CacheTTL time.Duration
	Limit    int
}

// NewLeaderboardService creates the leaderboard service.
//
// Parameters:
//   - st: durable store (single source of truth)
//   - c: ephemeral cache (derived, disposable)
//   - r: geolocation resolver (best-effort)
//   - m: metrics collector (optional, can be nil)
//   - log: logger (optional, can be nil)
func NewLeaderboardService(st store.Store, c cache.Cache, r geo.Resolver, m *metrics.Metrics, log *logger.Logger, opts Options) *LeaderboardService {
	if log == nil {
		log = logger.NewDefault()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultLeaderboardLimit
	}

	return &LeaderboardService{
		store:     st,
		cache:     c,
		resolver:  r,
		validator: validator.New(),
		metrics:   m,
		logger:    log.WithComponent("LeaderboardService"),
		cacheTTL:  opts.CacheTTL,
		limit:     opts.Limit,
	}
}

// GetLeaderboard returns the current top records and where they came
// from (models.SourceCache or models.SourceStore).
//
// Cache hit: decode and return, no store access. Cache miss or any
// cache failure: query the store, repopulate the cache with the TTL,
// return. A failed repopulation is logged and swallowed; the TTL of
// nothing is still correct, the next read just misses again.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context) ([]models.IPRecord, string, error) {
	cached, err := s.cache.Get(ctx, CacheKey)
	if err == nil {
		var records []models.IPRecord
		if jsonErr := json.Unmarshal([]byte(cached), &records); jsonErr == nil {
			s.logger.Debug().Int("records", len(records)).Msg("Leaderboard served from cache")
			s.countRead("cache_hit")
			return records, models.SourceCache, nil
		}
		// Corrupt payload: fall through to the store and overwrite it
		s.logger.Warn().Str("key", CacheKey).Msg("Discarding undecodable cache entry")
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		// A broken cache must not break reads; treat it as a miss
		s.logger.Warn().Err(err).Msg("Cache unavailable, falling through to store")
	}
	s.countRead("cache_miss")

	start := time.Now()
	records, err := s.store.TopByVisits(ctx, s.limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Leaderboard query failed")
		s.countQuery("top_by_visits", "error", start)
		return nil, "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	s.countQuery("top_by_visits", "success", start)

	s.populateCache(ctx, records)

	return records, models.SourceStore, nil
}

// TrackSighting records one sighting of ip and returns a human-readable
// "City, CC" location string.
//
// Validation happens before any external call. Geolocation is
// best-effort with a bounded timeout inside the resolver; when it fails
// the sighting is still recorded with default location values, and an
// existing row keeps its last known good location. A successful upsert
// always invalidates the cached snapshot.
func (s *LeaderboardService) TrackSighting(ctx context.Context, ip string) (string, error) {
	// validator's ipv4 rule also admits IPv4-mapped IPv6 notation; the
	// public contract is dotted-quad only, so colons are rejected first.
	if strings.Contains(ip, ":") || s.validator.Var(ip, "required,ipv4") != nil {
		s.logger.Warn().Str("ip", ip).Msg("Rejected malformed IP")
		s.countTrack("invalid_input")
		return "", ErrInvalidInput
	}

	location, resolved := s.resolver.Resolve(ctx, ip)
	if s.metrics != nil {
		if resolved {
			s.metrics.GeoLookupsTotal.WithLabelValues("resolved").Inc()
		} else {
			s.metrics.GeoLookupsTotal.WithLabelValues("unresolved").Inc()
		}
	}

	rec := &models.IPRecord{
		IP:        ip,
		Country:   location.Country,
		City:      location.City,
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
		Visits:    1,
		LastSeen:  time.Now().UTC(),
	}

	start := time.Now()
	if err := s.store.Upsert(ctx, rec, resolved); err != nil {
		s.logger.Error().Err(err).Str("ip", ip).Msg("Upsert failed")
		s.countQuery("upsert", "error", start)
		s.countTrack("store_error")
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	s.countQuery("upsert", "success", start)

	// Invalidate-on-write: the next read must see this sighting. A
	// failed delete is non-fatal, the TTL self-corrects within its
	// window.
	if err := s.cache.Delete(ctx, CacheKey); err != nil {
		s.logger.Warn().Err(err).Msg("Cache invalidation failed, relying on TTL expiry")
		s.countInvalidation("error")
	} else {
		s.countInvalidation("ok")
	}

	s.logger.Info().
		Str("ip", ip).
		Str("country", location.Country).
		Str("city", location.City).
		Bool("resolved", resolved).
		Msg("Sighting tracked")
	s.countTrack("success")

	return fmt.Sprintf("%s, %s", location.City, location.Country), nil
}

// populateCache stores the serialized leaderboard under the fixed key.
// Failures are logged and swallowed.
func (s *LeaderboardService) populateCache(ctx context.Context, records []models.IPRecord) {
	data, err := json.Marshal(records)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to encode leaderboard for caching")
		return
	}

	if err := s.cache.Set(ctx, CacheKey, string(data), s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to populate leaderboard cache")
	}
}

func (s *LeaderboardService) countRead(result string) {
	if s.metrics != nil {
		s.metrics.LeaderboardReadsTotal.WithLabelValues(result).Inc()
	}
}

func (s *LeaderboardService) countTrack(result string) {
	if s.metrics != nil {
		s.metrics.TrackRequestsTotal.WithLabelValues(result).Inc()
	}
}

func (s *LeaderboardService) countInvalidation(status string) {
	if s.metrics != nil {
		s.metrics.CacheInvalidations.WithLabelValues(status).Inc()
	}
}

func (s *LeaderboardService) countQuery(operation, status string, start time.Time) {
	if s.metrics != nil {
		s.metrics.DatastoreQueriesTotal.WithLabelValues(operation, status).Inc()
		s.metrics.DatastoreQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

// Close cleans up the store and cache connections.
func (s *LeaderboardService) Close() error {
	storeErr := s.store.Close()
	cacheErr := s.cache.Close()
	if storeErr != nil {
		return storeErr
	}
	return cacheErr
}
