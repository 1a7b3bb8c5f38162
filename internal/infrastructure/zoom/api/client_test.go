// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
)

// fakeExchanger counts exchanges and returns a fixed result.
type fakeExchanger struct {
	calls  atomic.Int32
	result models.TokenExchangeResult
}

func (f *fakeExchanger) ExchangeToken(ctx context.Context, tenantID string) models.TokenExchangeResult {
	f.calls.Add(1)
	return f.result
}

func okExchanger() *fakeExchanger {
	return &fakeExchanger{result: models.NewTokenExchangeSuccess("tok123", "bearer", 3600)}
}

// newTestClient returns a client against server with fast retries.
func newTestClient(server *httptest.Server, exchanger TokenExchanger) *Client {
	return NewClient(Config{
		TokenSource:    NewTenantTokenSource(context.Background(), exchanger, "acme"),
		BaseURL:        server.URL,
		Transport:      http.DefaultTransport,
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
	})
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name            string
		config          Config
		expectedBaseURL string
		expectedTimeout time.Duration
		expectedRetries int
	}{
		{
			name: "with all config provided",
			config: Config{
				BaseURL:    "https://custom.api.zoom.us/v2",
				Timeout:    45 * time.Second,
				MaxRetries: 5,
			},
			expectedBaseURL: "https://custom.api.zoom.us/v2",
			expectedTimeout: 45 * time.Second,
			expectedRetries: 5,
		},
		{
			name:            "with minimal config - uses defaults",
			config:          Config{},
			expectedBaseURL: BaseURL,
			expectedTimeout: DefaultClientTimeout,
			expectedRetries: DefaultMaxRetries,
		},
		{
			name:            "negative retries disables retrying",
			config:          Config{MaxRetries: -1},
			expectedBaseURL: BaseURL,
			expectedTimeout: DefaultClientTimeout,
			expectedRetries: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.TokenSource = NewTenantTokenSource(context.Background(), okExchanger(), "acme")
			client := NewClient(tt.config)

			if client.config.BaseURL != tt.expectedBaseURL {
				t.Errorf("expected BaseURL %s, got %s", tt.expectedBaseURL, client.config.BaseURL)
			}
			if client.httpClient.Timeout != tt.expectedTimeout {
				t.Errorf("expected HTTP client timeout %v, got %v", tt.expectedTimeout, client.httpClient.Timeout)
			}
			if client.config.MaxRetries != tt.expectedRetries {
				t.Errorf("expected MaxRetries %d, got %d", tt.expectedRetries, client.config.MaxRetries)
			}
		})
	}
}

func TestParseErrorResponse(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		expectedError string
		expectedCode  int
	}{
		{
			name:          "structured zoom error",
			body:          []byte(`{"code":1001,"message":"User does not exist: nobody."}`),
			expectedError: "zoom API error (code 1001): User does not exist: nobody.",
			expectedCode:  1001,
		},
		{
			name:          "unstructured body",
			body:          []byte("Internal Server Error"),
			expectedError: "zoom API error: Internal Server Error",
		},
		{
			name:          "json without message",
			body:          []byte(`{"code":124}`),
			expectedError: `zoom API error: {"code":124}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseErrorResponse(http.StatusNotFound, tt.body)
			if err.Error() != tt.expectedError {
				t.Errorf("expected %q, got %q", tt.expectedError, err.Error())
			}
			if err.Code != tt.expectedCode || err.StatusCode != http.StatusNotFound {
				t.Errorf("unexpected codes %d/%d", err.Code, err.StatusCode)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		err        error
		expected   bool
	}{
		{"network error", 0, errors.New("connection reset"), true},
		{"context cancelled", 0, fmt.Errorf("get: %w", context.Canceled), false},
		{"deadline exceeded", 0, context.DeadlineExceeded, false},
		{"token exchange failure", 0, fmt.Errorf("get: %w", &TokenError{}), false},
		{"server error", http.StatusBadGateway, nil, true},
		{"rate limited", http.StatusTooManyRequests, nil, true},
		{"client error", http.StatusNotFound, nil, false},
		{"success", http.StatusOK, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldRetry(tt.statusCode, tt.err); got != tt.expected {
				t.Errorf("shouldRetry(%d, %v) = %v, want %v", tt.statusCode, tt.err, got, tt.expected)
			}
		})
	}
}

func TestCalculateBackoff(t *testing.T) {
	client := NewClient(Config{
		InitialBackoff:    100 * time.Millisecond,
		MaxBackoff:        1 * time.Second,
		BackoffMultiplier: 2,
	})

	if got := client.calculateBackoff(0); got != 100*time.Millisecond {
		t.Errorf("first attempt backoff = %v, want initial backoff", got)
	}

	for attempt := 1; attempt < 10; attempt++ {
		got := client.calculateBackoff(attempt)
		if got < 100*time.Millisecond || got > 1250*time.Millisecond {
			t.Errorf("attempt %d backoff %v out of bounds", attempt, got)
		}
	}
}

func TestDoRequest_RetryBehavior(t *testing.T) {
	t.Run("retries server errors then succeeds", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(`{"users":[]}`))
		}))
		defer server.Close()

		exchanger := okExchanger()
		client := newTestClient(server, exchanger)
		if _, err := client.GetUsers(context.Background()); err != nil {
			t.Fatalf("expected success after retries, got %v", err)
		}
		if hits.Load() != 3 {
			t.Errorf("expected 3 attempts, got %d", hits.Load())
		}
		if exchanger.calls.Load() != 1 {
			t.Errorf("expected the token to be reused across retries, got %d exchanges", exchanger.calls.Load())
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"code":500,"message":"upstream"}`))
		}))
		defer server.Close()

		_, err := newTestClient(server, okExchanger()).GetUsers(context.Background())
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
			t.Fatalf("expected APIError with 502, got %v", err)
		}
		if hits.Load() != 3 {
			t.Errorf("expected 3 attempts, got %d", hits.Load())
		}
	})

	t.Run("failed token exchange is not retried", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}))
		defer server.Close()

		exchanger := &fakeExchanger{result: models.NewConfigurationFailure([]string{models.FieldZoomClientSecret})}
		_, err := newTestClient(server, exchanger).GetUsers(context.Background())

		var tokenErr *TokenError
		if !errors.As(err, &tokenErr) {
			t.Fatalf("expected TokenError, got %v", err)
		}
		if tokenErr.Result.ErrorKind != models.ErrorKindConfiguration {
			t.Errorf("expected configuration failure, got %s", tokenErr.Result.ErrorKind)
		}
		if exchanger.calls.Load() != 1 || hits.Load() != 0 {
			t.Errorf("expected one exchange and no API calls, got %d and %d", exchanger.calls.Load(), hits.Load())
		}
	})

	t.Run("cancelled while backing off", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient(Config{
			TokenSource:    NewTenantTokenSource(context.Background(), okExchanger(), "acme"),
			BaseURL:        server.URL,
			Transport:      http.DefaultTransport,
			InitialBackoff: time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := client.GetUsers(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("expected deadline exceeded, got %v", err)
		}
	})
}

func TestClient_SendsBearerToken(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"users":[]}`))
	}))
	defer server.Close()

	exchanger := okExchanger()
	client := newTestClient(server, exchanger)
	for i := 0; i < 2; i++ {
		if _, err := client.GetUsers(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if auth != "Bearer tok123" {
		t.Errorf("expected bearer token header, got %q", auth)
	}
	if exchanger.calls.Load() != 1 {
		t.Errorf("expected one exchange per client, got %d", exchanger.calls.Load())
	}
}
