// Package client provides an HTTP client for the edgegate gateway API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/HatiCode/edgegate/pkg/gateway"
	"github.com/HatiCode/edgegate/pkg/history"
	"github.com/HatiCode/edgegate/pkg/httpx"
)

// GatewayClient is an HTTP client for the gateway's JSON API.
// It is safe for concurrent use by multiple goroutines.
type GatewayClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewGatewayClient creates a new client for the gateway.
// The baseURL should include the scheme and host (e.g., "http://localhost:5000").
// A default timeout of 5 seconds is used for HTTP requests.
func NewGatewayClient(baseURL string) *GatewayClient {
	return NewGatewayClientWithTimeout(baseURL, 5*time.Second)
}

// NewGatewayClientWithTimeout creates a new client with a custom timeout.
func NewGatewayClientWithTimeout(baseURL string, timeout time.Duration) *GatewayClient {
	return &GatewayClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// StatusError is returned when the gateway answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("unexpected status code %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// Health fetches GET /api/health.
func (c *GatewayClient) Health(ctx context.Context) (*gateway.HealthStatus, error) {
	var out gateway.HealthStatus
	if err := c.do(ctx, http.MethodGet, gateway.PathHealth, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History fetches GET /api/history, newest first.
func (c *GatewayClient) History(ctx context.Context) ([]history.Record, error) {
	var out gateway.HistoryResponse
	if err := c.do(ctx, http.MethodGet, gateway.PathHistory, nil, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}

// Infer posts one inference request. An empty sample sends no body, letting
// the gateway apply its default sample.
func (c *GatewayClient) Infer(ctx context.Context, sample string) (*history.Record, error) {
	var body []byte
	if sample != "" {
		b, err := json.Marshal(gateway.InferRequest{Sample: &sample})
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = b
	}

	var out history.Record
	if err := c.do(ctx, http.MethodPost, gateway.PathInfer, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *GatewayClient) do(ctx context.Context, method, path string, body []byte, out any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	u = u.JoinPath(path)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp httpx.ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		return &StatusError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
