package accounts

import (
	"context"
	"net/http"
	"sync"
)

// MockAPIClient is a mock implementation of APIClient for testing and
// for running the service without a live accounts service.
type MockAPIClient struct {
	SimulateErrors bool

	// Missing lists account numbers that should look nonexistent.
	Missing map[string]bool

	OnGetAccount      func(ctx context.Context, accountNo string) error
	OnCurrentConNum   func(ctx context.Context, accountNo string) (int64, error)
	OnIncrementConNum func(ctx context.Context, accountNo string) error

	mu       sync.Mutex
	counters map[string]int64
}

// NewMockAPIClient creates a new mock API client with default behavior:
// every account exists and its counter starts at 1.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{
		counters: make(map[string]int64),
	}
}

// GetAccount reports whether the mock account exists.
func (m *MockAPIClient) GetAccount(ctx context.Context, accountNo string) error {
	if m.SimulateErrors {
		return &APIError{StatusCode: http.StatusInternalServerError, Message: "simulated accounts error"}
	}
	if m.OnGetAccount != nil {
		return m.OnGetAccount(ctx, accountNo)
	}
	if m.Missing[accountNo] {
		return &APIError{StatusCode: http.StatusNotFound, Message: "account not found"}
	}
	return nil
}

// CurrentConNum returns the mock counter for the account.
func (m *MockAPIClient) CurrentConNum(ctx context.Context, accountNo string) (int64, error) {
	if m.SimulateErrors {
		return 0, &APIError{StatusCode: http.StatusInternalServerError, Message: "simulated accounts error"}
	}
	if m.OnCurrentConNum != nil {
		return m.OnCurrentConNum(ctx, accountNo)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.counters[accountNo]; !ok {
		m.counters[accountNo] = 1
	}
	return m.counters[accountNo], nil
}

// IncrementConNum advances the mock counter for the account.
func (m *MockAPIClient) IncrementConNum(ctx context.Context, accountNo string) error {
	if m.SimulateErrors {
		return &APIError{StatusCode: http.StatusInternalServerError, Message: "simulated accounts error"}
	}
	if m.OnIncrementConNum != nil {
		return m.OnIncrementConNum(ctx, accountNo)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.counters[accountNo]; !ok {
		m.counters[accountNo] = 1
	}
	m.counters[accountNo]++
	return nil
}
