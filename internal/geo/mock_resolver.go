package geo

import (
	"context"

	"github.com/evyataryagoni/geoip-leaderboard/internal/models"
)

// MockResolver is a test double for the Resolver interface.
type MockResolver struct {
	// Location and Resolved are returned by every Resolve call.
	Location models.Location
	Resolved bool

	// ResolveCalls tracks the IPs Resolve was called with.
	ResolveCalls []string
}

// NewMockResolver creates a resolver that always succeeds with loc.
func NewMockResolver(loc models.Location) *MockResolver {
	return &MockResolver{
		Location: loc,
		Resolved: true,
	}
}

// NewFailingMockResolver creates a resolver that always fails over to
// the default location.
func NewFailingMockResolver() *MockResolver {
	return &MockResolver{
		Location: models.DefaultLocation(),
		Resolved: false,
	}
}

// Resolve implements the Resolver interface.
func (m *MockResolver) Resolve(ctx context.Context, ip string) (models.Location, bool) {
	m.ResolveCalls = append(m.ResolveCalls, ip)
	return m.Location, m.Resolved
}
