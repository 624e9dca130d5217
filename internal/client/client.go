// Package client talks to the storefront REST backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const (
	maxBodySize    = 8 << 20
	breakerTimeout = 30 * time.Second
)

type Config struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
	Logger    *zap.Logger
	// BreakerFailures is the number of consecutive transport failures after
	// which calls fail fast for 30s. Zero disables the breaker.
	BreakerFailures uint32
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

func New(cfg Config) *Client {
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(base),
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}
	if cfg.BreakerFailures > 0 {
		c.breaker = newBreaker(cfg.BreakerFailures, logger)
	}
	return c
}

// newBreaker opens after n consecutive transport failures. Backend errors are
// answers, so they never trip it.
func newBreaker(n uint32, logger *zap.Logger) *gobreaker.CircuitBreaker[[]byte] {
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "storefront-backend",
		Timeout: breakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= n
		},
		IsSuccessful: func(err error) bool {
			var te *TransportError
			return !errors.As(err, &te)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

type errorBody struct {
	Message string `json:"message"`
}

// do sends a JSON request and returns the raw 2xx body.
func (c *Client) do(ctx context.Context, op, method, path, token string, body interface{}) ([]byte, error) {
	if c.breaker == nil {
		return c.send(ctx, op, method, path, token, body)
	}

	data, err := c.breaker.Execute(func() ([]byte, error) {
		return c.send(ctx, op, method, path, token, body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, &TransportError{Op: op, Err: err}
	}
	return data, err
}

func (c *Client) send(ctx context.Context, op, method, path, token string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed", zap.String("op", op), zap.Error(err))
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read response body: %w", err)}
	}

	c.logger.Debug("request done",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, backendError(resp.StatusCode, data)
	}
	return data, nil
}

func backendError(status int, data []byte) *BackendError {
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err == nil && eb.Message != "" {
		return &BackendError{StatusCode: status, Message: eb.Message}
	}
	return &BackendError{StatusCode: status, Message: http.StatusText(status)}
}

// decodeList decodes a JSON array element by element, keeping only the
// elements that decode and pass keep.
func decodeList[T any](op string, data []byte, keep func(T) bool) ([]T, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("%w: %v", ErrInvalidResponse, err)}
	}

	out := make([]T, 0, len(raw))
	for _, elem := range raw {
		var v T
		if err := json.Unmarshal(elem, &v); err != nil {
			continue
		}
		if keep(v) {
			out = append(out, v)
		}
	}
	return out, nil
}
