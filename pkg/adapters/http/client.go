package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/weatherbot/pkg/domain"
	"github.com/aretw0/weatherbot/pkg/observability"
	"github.com/aretw0/weatherbot/pkg/ports"
)

// Client talks to a remote weatherbot server.
// It implements ports.DialogEngine so the chat REPL can drive a remote engine.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

var _ ports.DialogEngine = (*Client)(nil)

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Transition posts one turn to /chat.
func (c *Client) Transition(ctx context.Context, req domain.TransitionRequest) (domain.TransitionResult, error) {
	var result domain.TransitionResult
	body, err := json.Marshal(req)
	if err != nil {
		return result, fmt.Errorf("encode turn: %w", err)
	}
	err = c.do(ctx, http.MethodPost, "/chat", bytes.NewReader(body), &result)
	return result, err
}

// Health fetches /health.
func (c *Client) Health(ctx context.Context) (observability.HealthReport, error) {
	var report observability.HealthReport
	err := c.do(ctx, http.MethodGet, "/health", nil, &report)
	return report, err
}

// Metrics fetches /metrics.
func (c *Client) Metrics(ctx context.Context) (observability.Snapshot, error) {
	var snap observability.Snapshot
	err := c.do(ctx, http.MethodGet, "/metrics", nil, &snap)
	return snap, err
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e errorBody
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Error != "" {
			return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, e.Error)
		}
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}
