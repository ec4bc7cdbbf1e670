package accounts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP.
type HTTPAPIClient struct {
	baseURL string

	// validateClient carries the short fixed timeout for existence checks.
	// The counter calls intentionally have no client timeout; a slow
	// accounts service stalls the whole request, as documented.
	validateClient *http.Client
	counterClient  *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL         string
	ValidateTimeout time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	validateTimeout := cfg.ValidateTimeout
	if validateTimeout == 0 {
		validateTimeout = 3 * time.Second
	}

	return &HTTPAPIClient{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		validateClient: &http.Client{Timeout: validateTimeout},
		counterClient:  &http.Client{},
	}
}

// GetAccount checks that the account exists.
func (c *HTTPAPIClient) GetAccount(ctx context.Context, accountNo string) error {
	url := fmt.Sprintf("%s/api/accounts/%s", c.baseURL, accountNo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building account request: %w", err)
	}

	resp, err := c.validateClient.Do(req)
	if err != nil {
		return fmt.Errorf("accounts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseError(resp)
	}
	return nil
}

// CurrentConNum reads the account's consignment counter.
func (c *HTTPAPIClient) CurrentConNum(ctx context.Context, accountNo string) (int64, error) {
	url := fmt.Sprintf("%s/api/accounts/%s/currentConNum", c.baseURL, accountNo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("building counter request: %w", err)
	}

	resp, err := c.counterClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("accounts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, parseError(resp)
	}

	var body CurrentConNumResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("failed to decode counter response: %w", err)
	}
	return body.CurrentConNum, nil
}

// IncrementConNum advances the account's consignment counter.
func (c *HTTPAPIClient) IncrementConNum(ctx context.Context, accountNo string) error {
	url := fmt.Sprintf("%s/api/accounts/%s/incrementConNum", c.baseURL, accountNo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, nil)
	if err != nil {
		return fmt.Errorf("building increment request: %w", err)
	}

	resp, err := c.counterClient.Do(req)
	if err != nil {
		return fmt.Errorf("accounts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp)
	}
	return nil
}

func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
	}
}
