package backend

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "test-secret"
	}
	srv := httptest.NewServer(NewRouter(cfg, setupStore(t), prometheus.NewRegistry(), nil))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func login(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp, data := call(t, srv, http.MethodPost, "/api/v1/auth/login", "", LoginRequestDTO{Username: DemoUsername, Password: DemoPassword})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out LoginResponseDTO
	require.NoError(t, json.Unmarshal(data, &out))
	return out.Token
}

func errorMessage(t *testing.T, data []byte) string {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.Unmarshal(data, &e))
	assert.False(t, e.Success)
	return e.Message
}

func TestHealth(t *testing.T) {
	srv := setupServer(t, Config{})

	resp, data := call(t, srv, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(data))
}

func TestLogin(t *testing.T) {
	srv := setupServer(t, Config{})

	resp, data := call(t, srv, http.MethodPost, "/api/v1/auth/login", "", LoginRequestDTO{Username: DemoUsername, Password: DemoPassword})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out LoginResponseDTO
	require.NoError(t, json.Unmarshal(data, &out))
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.Token)
	assert.Equal(t, float64(DemoBalance), out.Balance)

	resp, data = call(t, srv, http.MethodPost, "/api/v1/auth/login", "", LoginRequestDTO{Username: DemoUsername, Password: "nope"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Password is incorrect", errorMessage(t, data))
}

func TestProductsArePublic(t *testing.T) {
	srv := setupServer(t, Config{})

	resp, data := call(t, srv, http.MethodGet, "/api/v1/products", "", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []domain.Product
	require.NoError(t, json.Unmarshal(data, &products))
	assert.Len(t, products, len(DemoProducts))
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	srv := setupServer(t, Config{})

	for _, path := range []string{"/api/v1/cart", "/api/v1/user/addresses"} {
		resp, _ := call(t, srv, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)

		resp, _ = call(t, srv, http.MethodGet, path, "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
}

func TestCheckoutFlow(t *testing.T) {
	srv := setupServer(t, Config{})
	token := login(t, srv)

	resp, data := call(t, srv, http.MethodPost, "/api/v1/cart/checkout", token, CheckoutRequestDTO{AddressID: "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Cart is empty", errorMessage(t, data))

	resp, _ = call(t, srv, http.MethodPut, "/api/v1/cart", token, SetCartItemRequestDTO{ProductID: DemoProducts[0].ID, Quantity: 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data = call(t, srv, http.MethodPost, "/api/v1/user/addresses", token, AddAddressRequestDTO{Address: "short"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Address should be greater than 20 characters", errorMessage(t, data))

	resp, data = call(t, srv, http.MethodPost, "/api/v1/user/addresses", token, AddAddressRequestDTO{Address: longAddress})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var addresses []domain.Address
	require.NoError(t, json.Unmarshal(data, &addresses))
	require.Len(t, addresses, 1)

	resp, data = call(t, srv, http.MethodPost, "/api/v1/cart/checkout", token, CheckoutRequestDTO{AddressID: addresses[0].ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out CheckoutResponseDTO
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, float64(DemoBalance)-2*DemoProducts[0].Cost, out.Balance)

	resp, data = call(t, srv, http.MethodGet, "/api/v1/cart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(data))

	resp, data = call(t, srv, http.MethodDelete, "/api/v1/user/addresses/"+addresses[0].ID, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(data))

	resp, _ = call(t, srv, http.MethodDelete, "/api/v1/user/addresses/"+addresses[0].ID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	srv := setupServer(t, Config{RateLimit: 1})

	var limited bool
	for i := 0; i < 10; i++ {
		resp, _ := call(t, srv, http.MethodGet, "/api/v1/products", "", nil)
		if resp.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited)
}

func TestRequestIDEchoed(t *testing.T) {
	srv := setupServer(t, Config{})

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := setupServer(t, Config{})
	call(t, srv, http.MethodGet, "/api/v1/products", "", nil)

	resp, data := call(t, srv, http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `storefront_backend_http_requests_total{method="GET",route="/api/v1/products",status="200"} 1`)
}
