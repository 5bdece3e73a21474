// Package waitlistclient provides a typed consumer of the waitlist service
// for landing pages and internal tools. It carries the degraded-mode
// behavior those consumers share: a failed config fetch reads as
// unconfigured, and a failed count keeps the last displayed value.
package waitlistclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Client calls the waitlist service.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu        sync.Mutex
	lastCount int64
	hasCount  bool
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New constructs a Client pointing at the provided waitlist base URL.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = "http://localhost:8081"
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid waitlist base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// Config mirrors the config endpoint payload.
type Config struct {
	Configured bool   `json:"configured"`
	URL        string `json:"url"`
	AnonKey    string `json:"anonKey"`
}

// Count is a waitlist size reading. Stale marks a value served from the
// client's memory because the service could not be reached.
type Count struct {
	Value int64
	Stale bool
}

// JoinResult reports a join outcome. AlreadyJoined marks a repeat signup,
// which the service treats as success.
type JoinResult struct {
	AlreadyJoined bool
}

// APIError is a machine-coded failure response from the waitlist service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("waitlist request failed with status %d", e.Status)
	}
	return fmt.Sprintf("waitlist request failed (%d %s): %s", e.Status, e.Code, e.Message)
}

// Config fetches the hosted-service settings. On transport or decode
// failure it returns the unconfigured zero value along with the error, so
// callers can render the informational path and still log what happened.
func (c *Client) Config(ctx context.Context) (Config, error) {
	var cfg Config
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Count fetches the waitlist size. On failure it falls back to the last
// successfully fetched value, marked Stale; without any prior success the
// error is returned.
func (c *Client) Count(ctx context.Context) (Count, error) {
	var payload struct {
		Count int64 `json:"count"`
	}
	err := c.do(ctx, http.MethodGet, "/api/waitlist/count", nil, &payload)
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.hasCount {
			return Count{Value: c.lastCount, Stale: true}, nil
		}
		return Count{}, err
	}

	c.mu.Lock()
	c.lastCount = payload.Count
	c.hasCount = true
	c.mu.Unlock()
	return Count{Value: payload.Count}, nil
}

// Join signs the email up. A repeat signup is a success with AlreadyJoined
// set; validation failures surface as APIError.
func (c *Client) Join(ctx context.Context, email string) (JoinResult, error) {
	body := map[string]string{"email": email}
	var payload struct {
		Joined        bool `json:"joined"`
		AlreadyJoined bool `json:"alreadyJoined"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/waitlist/join", body, &payload); err != nil {
		return JoinResult{}, err
	}
	return JoinResult{AlreadyJoined: payload.AlreadyJoined}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, v any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	endpoint := c.baseURL + path
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		apiErr := APIError{Status: res.StatusCode}
		apiErr.Code, apiErr.Message = extractError(res.Body)
		return apiErr
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func extractError(body io.Reader) (code, message string) {
	if body == nil {
		return "", ""
	}
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return "", ""
	}
	return payload.Error.Code, payload.Error.Message
}
