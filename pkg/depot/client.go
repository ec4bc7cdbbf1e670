// Package depot provides integration with the external depot-resolution
// service, which maps the fourth address line to a delivery depot code.
package depot

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Sentinel errors for depot-service failures.
var (
	// ErrUnavailable indicates the depot service could not be reached.
	ErrUnavailable = errors.New("depot service unavailable")

	// ErrBadStatus indicates the depot service responded with an
	// unexpected status.
	ErrBadStatus = errors.New("unexpected depot service response")
)

// Config holds depot client configuration.
type Config struct {
	BaseURL string
	UseMock bool // When true, uses the mock API client
}

// Client is the depot-resolution client.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new depot client. If cfg.UseMock is true, it uses a mock
// API client. Otherwise, it uses the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient
	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{BaseURL: cfg.BaseURL})
	}
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new depot client with a custom API client.
// This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// Resolve maps a region to its delivery depot code. Single attempt.
func (c *Client) Resolve(ctx context.Context, area string) (int, error) {
	code, err := c.apiClient.ResolveDepot(ctx, area)
	if err != nil {
		c.logger.Error("Depot resolution failed",
			zap.String("area", area),
			zap.Error(err),
		)
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return 0, fmt.Errorf("%w: status %d", ErrBadStatus, apiErr.StatusCode)
		}
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	c.logger.Info("Resolved delivery depot",
		zap.String("area", area),
		zap.Int("depot", code),
	)
	return code, nil
}
