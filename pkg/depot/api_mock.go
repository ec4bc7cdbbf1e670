package depot

import (
	"context"
	"hash/fnv"
	"net/http"
)

// knownAreas maps common regions to fixed depot codes for predictable
// local development.
var knownAreas = map[string]int{
	"Westmeath": 31,
	"Dublin":    1,
	"Athlone":   31,
	"Galway":    45,
	"Cork":      62,
}

// MockAPIClient is a mock implementation of APIClient for testing and
// for running the service without a live depot service.
type MockAPIClient struct {
	SimulateErrors bool

	OnResolveDepot func(ctx context.Context, area string) (int, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// ResolveDepot returns a stable depot code for the area: known regions map
// to fixed codes, anything else hashes to a code in [10, 98].
func (m *MockAPIClient) ResolveDepot(ctx context.Context, area string) (int, error) {
	if m.SimulateErrors {
		return 0, &APIError{StatusCode: http.StatusInternalServerError, Message: "simulated depot error"}
	}
	if m.OnResolveDepot != nil {
		return m.OnResolveDepot(ctx, area)
	}

	if code, ok := knownAreas[area]; ok {
		return code, nil
	}

	h := fnv.New32a()
	h.Write([]byte(area))
	return int(h.Sum32()%89) + 10, nil
}
