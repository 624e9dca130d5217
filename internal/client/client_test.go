package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/api/v1/", Timeout: 5 * time.Second})
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func TestProducts_DropsMalformedEntries(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/products", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, `[
			{"_id":"p1","name":"Duffle","category":"Fashion","cost":150,"rating":4,"image":"https://img/p1.png"},
			{"name":"no id","cost":10,"rating":1},
			{"_id":"p2","name":"bad cost","cost":"ten","rating":1},
			{"_id":"p3","name":"bad rating","cost":10,"rating":9},
			{"_id":"p4","name":"negative","cost":-1,"rating":2},
			{"_id":"p5","name":"Fan","category":"Home","cost":250,"rating":3,"image":"x","extra":true}
		]`)
	})
	c := newTestClient(t, mux)

	products, err := c.Products(context.Background())

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, domain.Product{ID: "p1", Name: "Duffle", Category: "Fashion", Cost: 150, Rating: 4, Image: "https://img/p1.png"}, products[0])
	assert.Equal(t, "p5", products[1].ID)
}

func TestProducts_InvalidJSONIsTransportError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `<html>not json</html>`)
	})
	c := newTestClient(t, mux)

	_, err := c.Products(context.Background())

	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestCart_SendsBearerToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/cart", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `[{"productId":"p1","qty":2},{"productId":"","qty":1},{"productId":"p2","qty":0},{"productId":"p3","qty":1}]`)
	})
	c := newTestClient(t, mux)

	entries, err := c.Cart(context.Background(), "tok-123")

	require.NoError(t, err)
	assert.Equal(t, []domain.RawCartEntry{{ProductID: "p1", Quantity: 2}, {ProductID: "p3", Quantity: 1}}, entries)
}

func TestCheckout_Success(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/cart/checkout", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a1", body["addressId"])
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})
	c := newTestClient(t, mux)

	require.NoError(t, c.Checkout(context.Background(), "tok", "a1"))
}

func TestCheckout_BackendMessageVerbatim(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/cart/checkout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"success":false,"message":"Wallet balance not sufficient to place order"}`)
	})
	c := newTestClient(t, mux)

	err := c.Checkout(context.Background(), "tok", "a1")

	be, ok := AsBackendError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, be.StatusCode)
	assert.Equal(t, "Wallet balance not sufficient to place order", be.Message)
	assert.False(t, IsTransport(err))
}

func TestBackendError_FallsBackToStatusText(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/user/addresses", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	c := newTestClient(t, mux)

	_, err := c.Addresses(context.Background(), "expired")

	be, ok := AsBackendError(err)
	require.True(t, ok)
	assert.Equal(t, "Unauthorized", be.Message)
}

func TestTransportError_ServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	url := srv.URL
	srv.Close()
	c := New(Config{BaseURL: url, Timeout: time.Second})

	err := c.Checkout(context.Background(), "tok", "a1")

	require.Error(t, err)
	assert.True(t, IsTransport(err))
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "checkout", te.Op)
	_, isBackend := AsBackendError(err)
	assert.False(t, isBackend)
}

func TestNew_ZeroTimeoutLeavesRequestsUnbounded(t *testing.T) {
	c := New(Config{BaseURL: "http://localhost:8082/api/v1"})
	assert.Zero(t, c.httpClient.Timeout)

	c = New(Config{BaseURL: "http://localhost:8082/api/v1", Timeout: 5 * time.Second})
	assert.Equal(t, 5*time.Second, c.httpClient.Timeout)
}

func TestCheckout_SlowBackendWithoutTimeoutSucceeds(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/cart/checkout", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL + "/api/v1"})

	assert.NoError(t, c.Checkout(context.Background(), "tok", "a1"))
}

func TestBreaker_OpensOnTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	url := srv.URL
	srv.Close()
	c := New(Config{BaseURL: url, Timeout: time.Second, BreakerFailures: 2})

	for range 2 {
		err := c.Checkout(context.Background(), "tok", "a1")
		require.True(t, IsTransport(err))
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}

	err := c.Checkout(context.Background(), "tok", "a1")
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestBreaker_IgnoresBackendErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/cart/checkout", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"message":"Cart is empty"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	c := New(Config{BaseURL: srv.URL + "/api/v1", Timeout: time.Second, BreakerFailures: 1})

	for range 3 {
		err := c.Checkout(context.Background(), "tok", "a1")
		be, ok := AsBackendError(err)
		require.True(t, ok)
		assert.Equal(t, "Cart is empty", be.Message)
	}
}

func TestAddresses_AddAndDelete(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/user/addresses", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "221B Baker Street", body["address"])
		writeJSON(w, http.StatusOK, `[{"_id":"a1","address":"1 Main St"},{"_id":"a2","address":"221B Baker Street"}]`)
	})
	mux.HandleFunc("DELETE /api/v1/user/addresses/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a 1", r.PathValue("id"))
		writeJSON(w, http.StatusOK, `[{"_id":"a2","address":"221B Baker Street"},{"address":"no id"}]`)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	added, err := c.AddAddress(ctx, "tok", "221B Baker Street")
	require.NoError(t, err)
	assert.Len(t, added, 2)

	remaining, err := c.DeleteAddress(ctx, "tok", "a 1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Address{{ID: "a2", Text: "221B Baker Street"}}, remaining)
}

func TestSetCartItem(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/v1/cart", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "p1", body["productId"])
		assert.Equal(t, float64(3), body["qty"])
		writeJSON(w, http.StatusOK, `[{"productId":"p1","qty":3}]`)
	})
	c := newTestClient(t, mux)

	entries, err := c.SetCartItem(context.Background(), "tok", "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, []domain.RawCartEntry{{ProductID: "p1", Quantity: 3}}, entries)
}

func TestLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "learnbydoing" {
			writeJSON(w, http.StatusBadRequest, `{"success":false,"message":"Password is incorrect"}`)
			return
		}
		writeJSON(w, http.StatusCreated, `{"success":true,"token":"jwt","username":"crio.do","balance":5000}`)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	sess, err := c.Login(ctx, "crio.do", "learnbydoing")
	require.NoError(t, err)
	assert.Equal(t, domain.Session{Token: "jwt", Username: "crio.do", Balance: 5000}, sess)

	_, err = c.Login(ctx, "crio.do", "wrong")
	be, ok := AsBackendError(err)
	require.True(t, ok)
	assert.Equal(t, "Password is incorrect", be.Message)
}

func TestLogin_MissingToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true}`)
	})
	c := newTestClient(t, mux)

	_, err := c.Login(context.Background(), "u", "p")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}
