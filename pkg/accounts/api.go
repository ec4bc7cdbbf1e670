package accounts

import (
	"context"
	"fmt"
)

// APIClient defines the wire-level operations against the accounts service.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// GetAccount checks that an account exists.
	// GET /api/accounts/{account_no}
	GetAccount(ctx context.Context, accountNo string) error

	// CurrentConNum reads the account's running consignment counter.
	// GET /api/accounts/{account_no}/currentConNum
	CurrentConNum(ctx context.Context, accountNo string) (int64, error)

	// IncrementConNum advances the account's running consignment counter.
	// PATCH /api/accounts/{account_no}/incrementConNum
	IncrementConNum(ctx context.Context, accountNo string) error
}

// CurrentConNumResponse is the counter-read response body.
type CurrentConNumResponse struct {
	CurrentConNum int64 `json:"current_con_num"`
}

// APIError represents a non-success response from the accounts service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("accounts service returned %d: %s", e.StatusCode, e.Message)
}
