package depot_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"

	"github.com/parceldirect/consign/pkg/depot"
)

func newTestClient(mockClient *depot.MockAPIClient) *depot.Client {
	logger := otelzap.New(zap.NewNop())
	return depot.NewWithAPIClient(
		depot.Config{},
		mockClient,
		logger,
		nil,
	)
}

func TestClient_Resolve_KnownArea(t *testing.T) {
	client := newTestClient(depot.NewMockAPIClient())

	code, err := client.Resolve(context.Background(), "Westmeath")
	require.NoError(t, err)
	assert.Equal(t, 31, code)
}

func TestClient_Resolve_UnknownArea(t *testing.T) {
	client := newTestClient(depot.NewMockAPIClient())
	ctx := context.Background()

	// Unknown areas hash to a stable code in range.
	first, err := client.Resolve(ctx, "Ballygar")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, first, 10)
	assert.LessOrEqual(t, first, 98)

	second, err := client.Resolve(ctx, "Ballygar")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestClient_Resolve_ServiceError(t *testing.T) {
	mockAPI := depot.NewMockAPIClient()
	mockAPI.SimulateErrors = true

	client := newTestClient(mockAPI)

	_, err := client.Resolve(context.Background(), "Westmeath")
	assert.ErrorIs(t, err, depot.ErrBadStatus)
}

func TestClient_Resolve_Unreachable(t *testing.T) {
	mockAPI := depot.NewMockAPIClient()
	mockAPI.OnResolveDepot = func(ctx context.Context, area string) (int, error) {
		return 0, errors.New("connection refused")
	}

	client := newTestClient(mockAPI)

	_, err := client.Resolve(context.Background(), "Westmeath")
	assert.ErrorIs(t, err, depot.ErrUnavailable)
}

func TestHTTPAPIClient_ResolveDepot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/depot", r.URL.Path)

		var req depot.ResolveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Westmeath", req.AddressLine4)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(depot.ResolveResponse{DepotNumber: 31})
	}))
	defer srv.Close()

	api := depot.NewHTTPAPIClient(depot.HTTPAPIClientConfig{BaseURL: srv.URL})

	code, err := api.ResolveDepot(context.Background(), "Westmeath")
	require.NoError(t, err)
	assert.Equal(t, 31, code)
}

func TestHTTPAPIClient_ResolveDepot_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "resolver down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	api := depot.NewHTTPAPIClient(depot.HTTPAPIClientConfig{BaseURL: srv.URL})

	_, err := api.ResolveDepot(context.Background(), "Westmeath")

	var apiErr *depot.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
}
