// Package accounts provides integration with the external accounts service,
// which owns account identities and the per-account consignment counters.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Sentinel errors for accounts-service failures.
var (
	// ErrUnavailable indicates the accounts service could not be reached.
	ErrUnavailable = errors.New("accounts service unavailable")

	// ErrUnknownAccount indicates the account does not exist.
	ErrUnknownAccount = errors.New("account does not exist")

	// ErrBadStatus indicates the accounts service responded with an
	// unexpected status.
	ErrBadStatus = errors.New("unexpected accounts service response")
)

// Config holds accounts client configuration.
type Config struct {
	BaseURL         string
	ValidateTimeout time.Duration
	UseMock         bool // When true, uses the mock API client
}

// Client is the accounts-service client. It delegates wire calls to the
// underlying APIClient (mock or HTTP) and translates responses into the
// service's error taxonomy.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new accounts client. If cfg.UseMock is true, it uses a
// mock API client. Otherwise, it uses the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient
	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL:         cfg.BaseURL,
			ValidateTimeout: cfg.ValidateTimeout,
		})
	}
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new accounts client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Validate confirms the account exists. Single attempt, no retries.
func (c *Client) Validate(ctx context.Context, accountNo string) error {
	err := c.apiClient.GetAccount(ctx, accountNo)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.StatusCode == 404:
		return fmt.Errorf("%w: %s", ErrUnknownAccount, accountNo)
	case errors.As(err, &apiErr):
		c.logger.Error("Accounts service error",
			zap.String("account_no", accountNo),
			zap.Int("status", apiErr.StatusCode),
		)
		return fmt.Errorf("%w: status %d", ErrBadStatus, apiErr.StatusCode)
	default:
		c.logger.Error("Accounts service unreachable",
			zap.String("account_no", accountNo),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

// NextConsignmentNumber reads the account's counter and then advances it,
// returning the value that was read. The two calls are not atomic:
// concurrent callers for the same account can be handed the same number.
// Duplicates surface later as a store uniqueness violation.
func (c *Client) NextConsignmentNumber(ctx context.Context, accountNo string) (int64, error) {
	num, err := c.apiClient.CurrentConNum(ctx, accountNo)
	if err != nil {
		c.logger.Error("Reading consignment counter failed",
			zap.String("account_no", accountNo),
			zap.Error(err),
		)
		return 0, c.counterError(err)
	}

	if err := c.apiClient.IncrementConNum(ctx, accountNo); err != nil {
		c.logger.Error("Advancing consignment counter failed",
			zap.String("account_no", accountNo),
			zap.Error(err),
		)
		return 0, c.counterError(err)
	}

	c.logger.Info("Allocated consignment number",
		zap.String("account_no", accountNo),
		zap.Int64("consignment_number", num),
	)
	return num, nil
}

func (c *Client) counterError(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: status %d", ErrBadStatus, apiErr.StatusCode)
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}
