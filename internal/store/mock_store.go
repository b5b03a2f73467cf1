package store

import (
	"context"

	"github.com/evyataryagoni/geoip-leaderboard/internal/models"
)

// UpsertCall records one Upsert invocation for test verification.
type UpsertCall struct {
	Record          models.IPRecord
	RefreshLocation bool
}

// MockStore is a test double for the Store interface.
// It allows tests to control behavior and verify interactions.
type MockStore struct {
	// Records is returned by TopByVisits as-is (already ordered).
	Records []models.IPRecord

	// Track method calls for verification in tests
	TopByVisitsCalls []int
	UpsertCalls      []UpsertCall
	CloseCalled      bool

	// Control behavior for error scenarios
	TopByVisitsError error
	UpsertError      error
	CloseError       error
}

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{}
}

// TopByVisits implements the Store interface.
// Tracks calls and returns configured data or errors.
func (m *MockStore) TopByVisits(ctx context.Context, limit int) ([]models.IPRecord, error) {
	m.TopByVisitsCalls = append(m.TopByVisitsCalls, limit)

	if m.TopByVisitsError != nil {
		return nil, m.TopByVisitsError
	}

	if limit < len(m.Records) {
		return m.Records[:limit], nil
	}
	return m.Records, nil
}

// Upsert implements the Store interface.
func (m *MockStore) Upsert(ctx context.Context, rec *models.IPRecord, refreshLocation bool) error {
	m.UpsertCalls = append(m.UpsertCalls, UpsertCall{
		Record:          *rec,
		RefreshLocation: refreshLocation,
	})

	return m.UpsertError
}

// Close implements the Store interface.
func (m *MockStore) Close() error {
	m.CloseCalled = true
	return m.CloseError
}
