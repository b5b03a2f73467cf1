package store

import (
	"context"

	"github.com/evyataryagoni/geoip-leaderboard/internal/models"
)

// Store defines the interface for the durable IP tracking store.
// The store is the single source of truth for visit counts; the cache
// is only ever a derived view of what these methods return.
type Store interface {
	// TopByVisits returns up to limit records ordered by visits
	// descending, ties broken by last_seen descending.
	TopByVisits(ctx context.Context, limit int) ([]models.IPRecord, error)

	// Upsert inserts rec as a new row with its Visits value, or, when a
	// row with the same IP exists, atomically increments visits and
	// refreshes last_seen. Geolocation columns are refreshed only when
	// refreshLocation is true, so a failed resolution never clobbers
	// previously known good values.
	Upsert(ctx context.Context, rec *models.IPRecord, refreshLocation bool) error

	// Close cleans up resources (database connections, etc.)
	Close() error
}
