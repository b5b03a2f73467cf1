package cache

import (
	"context"
	"time"
)

// MockCache is a test double for the Cache interface.
// It allows tests to control behavior and verify interactions.
type MockCache struct {
	// Data holds the mock data (key -> value mapping). TTLs are not
	// simulated; expiry behavior is exercised against miniredis instead.
	Data map[string]string

	// Track method calls for verification in tests
	GetCalls    []string
	SetCalls    []string
	SetTTLs     []time.Duration
	DeleteCalls []string
	CloseCalled bool

	// Control behavior for error scenarios
	GetError    error
	SetError    error
	DeleteError error
}

// NewMockCache creates an empty mock cache.
func NewMockCache() *MockCache {
	return &MockCache{
		Data: make(map[string]string),
	}
}

// Get implements the Cache interface.
// Tracks calls and returns configured data or errors.
func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	m.GetCalls = append(m.GetCalls, key)

	if m.GetError != nil {
		return "", m.GetError
	}

	val, ok := m.Data[key]
	if !ok {
		return "", ErrCacheMiss
	}
	return val, nil
}

// Set implements the Cache interface.
func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.SetCalls = append(m.SetCalls, key)
	m.SetTTLs = append(m.SetTTLs, ttl)

	if m.SetError != nil {
		return m.SetError
	}

	m.Data[key] = value
	return nil
}

// Delete implements the Cache interface.
func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.DeleteCalls = append(m.DeleteCalls, key)

	if m.DeleteError != nil {
		return m.DeleteError
	}

	delete(m.Data, key)
	return nil
}

// Close implements the Cache interface.
func (m *MockCache) Close() error {
	m.CloseCalled = true
	return nil
}
