package depot

import (
	"context"
	"fmt"
)

// APIClient defines the wire-level operation against the depot-resolution
// ("gazzing") service. This abstraction allows for mock implementations
// during testing and real implementations in production.
type APIClient interface {
	// ResolveDepot maps a free-text region to a delivery depot code.
	// POST /api/depot
	ResolveDepot(ctx context.Context, area string) (int, error)
}

// ResolveRequest is the depot-resolution request body.
type ResolveRequest struct {
	AddressLine4 string `json:"addressline4"`
}

// ResolveResponse is the depot-resolution response body.
type ResolveResponse struct {
	DepotNumber int `json:"depot_number"`
}

// APIError represents a non-success response from the depot service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("depot service returned %d: %s", e.StatusCode, e.Message)
}
