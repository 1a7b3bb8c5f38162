// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package api is a small Zoom REST client authenticated with a tenant's
// Server-to-Server OAuth token.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
)

// ClientAPI defines the interface for Zoom API operations
// This allows for easy mocking and testing of the Zoom client
type ClientAPI interface {
	GetUsers(ctx context.Context) ([]ZoomUser, error)
	ListRecordings(ctx context.Context, userID string, from, to time.Time) ([]Recording, error)
}

const (
	// BaseURL is the base URL for Zoom API
	BaseURL = "https://api.zoom.us/v2"
	// DefaultClientTimeout is the default HTTP client timeout for Zoom API requests
	DefaultClientTimeout = 30 * time.Second
	// Default retry configuration
	DefaultMaxRetries        = 3
	DefaultInitialBackoff    = 1 * time.Second
	DefaultMaxBackoff        = 30 * time.Second
	DefaultBackoffMultiplier = 2.0

	maxErrorBodyBytes = 64 << 10
)

// Client represents a Zoom API client for one tenant
type Client struct {
	httpClient *http.Client
	config     Config
}

// Config holds the configuration for the Zoom client
type Config struct {
	// TokenSource supplies the bearer token. The client reuses a token until it
	// expires; nothing outlives the client.
	TokenSource oauth2.TokenSource
	// Optional: override base URL for testing
	BaseURL string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
	// Optional: base transport, otelhttp over http.DefaultTransport by default
	Transport http.RoundTripper
	// Optional: retry configuration; negative MaxRetries disables retries
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// Ensure that Client implements ClientAPI
var _ ClientAPI = (*Client)(nil)

// APIError is a non-2xx answer from the Zoom API
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("zoom API error (code %d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("zoom API error: %s", e.Message)
}

// NewClient creates a new Zoom API client
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = DefaultInitialBackoff
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = DefaultMaxBackoff
	}
	if config.BackoffMultiplier == 0 {
		config.BackoffMultiplier = DefaultBackoffMultiplier
	}
	base := config.Transport
	if base == nil {
		base = otelhttp.NewTransport(http.DefaultTransport)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &oauth2.Transport{
				Base:   base,
				Source: oauth2.ReuseTokenSource(nil, config.TokenSource),
			},
		},
		config: config,
	}
}

// shouldRetry determines if an error or HTTP status code should be retried.
// A failed token exchange is never retried.
func shouldRetry(statusCode int, err error) bool {
	if err != nil {
		var tokenErr *TokenError
		if errors.As(err, &tokenErr) {
			return false
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		return true
	}

	return statusCode == http.StatusTooManyRequests ||
		(statusCode >= http.StatusInternalServerError && statusCode < 600)
}

// calculateBackoff calculates the backoff duration for a retry attempt with jitter
func (c *Client) calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return c.config.InitialBackoff
	}

	backoff := float64(c.config.InitialBackoff) * math.Pow(c.config.BackoffMultiplier, float64(attempt))
	if time.Duration(backoff) > c.config.MaxBackoff {
		backoff = float64(c.config.MaxBackoff)
	}

	// ±25% jitter
	jitter := backoff * 0.25 * (rand.Float64()*2 - 1)
	withJitter := time.Duration(backoff + jitter)
	if withJitter < c.config.InitialBackoff {
		withJitter = c.config.InitialBackoff
	}
	return withJitter
}

// getJSON performs an authenticated GET and decodes a 200 response into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.doRequest(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		apiErr := parseErrorResponse(resp.StatusCode, body)
		slog.ErrorContext(ctx, "Zoom API returned error", logging.ErrKey, apiErr, "status", resp.StatusCode)
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// doRequest performs an authenticated HTTP request to the Zoom API with retry logic
func (c *Client) doRequest(ctx context.Context, method, path string) (*http.Response, error) {
	url := c.config.BaseURL + path

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(start)

		statusCode := 0
		if resp != nil {
			statusCode = resp.StatusCode
		}
		if !shouldRetry(statusCode, err) || attempt >= c.config.MaxRetries {
			if err != nil {
				slog.ErrorContext(ctx, "Zoom API request failed",
					"method", method,
					"path", path,
					"duration", duration.String(),
					"attempt", attempt+1,
					logging.ErrKey, err)
				return nil, unwrapTokenError(err)
			}
			slog.DebugContext(ctx, "Zoom API request completed",
				"method", method,
				"path", path,
				"status", statusCode,
				"duration", duration.String(),
				"attempt", attempt+1)
			return resp, nil
		}

		if resp != nil {
			_ = resp.Body.Close()
		}
		backoff := c.calculateBackoff(attempt)
		slog.WarnContext(ctx, "Zoom API request failed, retrying",
			"method", method,
			"path", path,
			"status", statusCode,
			"attempt", attempt+1,
			"max_retries", c.config.MaxRetries,
			"backoff", backoff.String(),
			logging.ErrKey, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// unwrapTokenError strips the *url.Error wrapper so callers can inspect the exchange result.
func unwrapTokenError(err error) error {
	var tokenErr *TokenError
	if errors.As(err, &tokenErr) {
		return tokenErr
	}
	return err
}

// parseErrorResponse attempts to parse a Zoom API error response
func parseErrorResponse(statusCode int, body []byte) *APIError {
	var errResp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return &APIError{StatusCode: statusCode, Code: errResp.Code, Message: errResp.Message}
	}
	return &APIError{StatusCode: statusCode, Message: string(body)}
}
