package limiter

// MockLimiter is a test double for the Limiter interface.
// It allows tests to control allow/deny behavior and verify interactions.
type MockLimiter struct {
	// AllowResult is returned by every Allow call.
	AllowResult bool

	// Track method calls for verification in tests
	AllowCalls  []string
	CloseCalled bool

	// Control error scenarios
	CloseError error
}

// NewMockLimiter creates a mock limiter that allows or denies everything.
func NewMockLimiter(allowResult bool) *MockLimiter {
	return &MockLimiter{
		AllowResult: allowResult,
	}
}

// Allow implements the Limiter interface.
func (m *MockLimiter) Allow(ip string) bool {
	m.AllowCalls = append(m.AllowCalls, ip)
	return m.AllowResult
}

// Close implements the Limiter interface.
func (m *MockLimiter) Close() error {
	m.CloseCalled = true
	return m.CloseError
}
