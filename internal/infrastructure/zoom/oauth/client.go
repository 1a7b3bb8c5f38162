// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package oauth implements Zoom's Server-to-Server OAuth account credentials grant
// for tenants whose credentials are held by a TenantCredentialsResolver.
package oauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
)

const (
	// TokenURL is the Zoom OAuth token endpoint
	TokenURL = "https://zoom.us/oauth/token"
	// GrantTypeAccountCredentials is the grant used by Server-to-Server OAuth apps
	GrantTypeAccountCredentials = "account_credentials"
	// DefaultTimeout bounds a single exchange when the caller sets no deadline
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 1 << 20
)

// TokenExchanger exchanges a tenant's stored credentials for a Zoom access token.
// Implementations never return errors: every failure is reported in the result.
type TokenExchanger interface {
	Exchange(ctx context.Context, tenantID string) models.TokenExchangeResult
}

// Config holds the configuration for the token exchange client
type Config struct {
	// Optional: override the token URL for testing
	TokenURL string
	// Optional: override the request timeout
	Timeout time.Duration
	// Optional: HTTP client to use; Timeout is ignored when set
	HTTPClient *http.Client
}

// Client performs one token request per Exchange call. It holds no token state.
type Client struct {
	resolver   domain.TenantCredentialsResolver
	httpClient *http.Client
	config     Config
}

var _ TokenExchanger = (*Client)(nil)

// NewClient creates a token exchange client backed by the given resolver
func NewClient(resolver domain.TenantCredentialsResolver, config Config) *Client {
	if config.TokenURL == "" {
		config.TokenURL = TokenURL
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   config.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}

	return &Client{
		resolver:   resolver,
		httpClient: httpClient,
		config:     config,
	}
}

// Exchange resolves the tenant's credentials and performs the account credentials grant.
func (c *Client) Exchange(ctx context.Context, tenantID string) models.TokenExchangeResult {
	creds, err := c.resolver.GetCredentials(ctx, tenantID)
	if err != nil {
		if ctx.Err() != nil {
			return cancelledFailure(ctx)
		}
		// An unknown tenant is reported the same way as one that never configured Zoom.
		if domain.IsNotFound(err) {
			return models.NewConfigurationFailure(append([]string(nil), models.RequiredCredentialFields...))
		}
		return models.NewTokenExchangeFailure(models.ErrorKindCredentialLookup,
			fmt.Sprintf("failed to resolve Zoom credentials: %v", err), nil, 0)
	}

	return c.ExchangeCredentials(ctx, creds)
}

// ExchangeCredentials performs the grant for an already resolved credentials record.
// Missing fields are rejected before any network I/O.
func (c *Client) ExchangeCredentials(ctx context.Context, creds *models.TenantCredentials) models.TokenExchangeResult {
	if missing := creds.MissingFields(); len(missing) > 0 {
		return models.NewConfigurationFailure(missing)
	}

	req, err := c.newTokenRequest(ctx, creds)
	if err != nil {
		return models.NewTokenExchangeFailure(models.ErrorKindTransport, err.Error(), nil, 0)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportFailure(ctx, err, nil, 0)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return transportFailure(ctx, fmt.Errorf("failed to read token response: %w", err), nil, resp.StatusCode)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return models.NewTokenExchangeFailure(models.ErrorKindUpstreamAuth,
			upstreamErrorMessage(resp.StatusCode, body), body, resp.StatusCode)
	}

	return parseTokenResponse(resp.StatusCode, body)
}

func (c *Client) newTokenRequest(ctx context.Context, creds *models.TenantCredentials) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.TokenURL,
		strings.NewReader(EncodeTokenRequestBody(creds.ZoomAccountID)))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Authorization", BasicAuthorization(creds.ZoomClientID, creds.ZoomClientSecret))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// BasicAuthorization builds the Authorization header value for the client credentials.
// The id and secret are joined with ":" and encoded as-is, without URL escaping.
func BasicAuthorization(clientID, clientSecret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(clientID+":"+clientSecret))
}

// EncodeTokenRequestBody builds the form body of the account credentials grant.
func EncodeTokenRequestBody(accountID string) string {
	return "grant_type=" + GrantTypeAccountCredentials + "&account_id=" + url.QueryEscape(accountID)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   *int   `json:"expires_in"`
}

type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	// Zoom answers some credential errors with "reason" instead of "error_description".
	Reason string `json:"reason"`
}

func parseTokenResponse(statusCode int, body []byte) models.TokenExchangeResult {
	var token tokenResponse
	if err := json.Unmarshal(body, &token); err != nil {
		return models.NewTokenExchangeFailure(models.ErrorKindTransport,
			fmt.Sprintf("malformed token response: %v", err), body, statusCode)
	}

	var missing []string
	if token.AccessToken == "" {
		missing = append(missing, "access_token")
	}
	if token.TokenType == "" {
		missing = append(missing, "token_type")
	}
	if token.ExpiresIn == nil {
		missing = append(missing, "expires_in")
	}
	if len(missing) > 0 {
		return models.NewTokenExchangeFailure(models.ErrorKindTransport,
			fmt.Sprintf("malformed token response: missing %s", strings.Join(missing, ", ")), body, statusCode)
	}

	return models.NewTokenExchangeSuccess(token.AccessToken, token.TokenType, *token.ExpiresIn)
}

func upstreamErrorMessage(statusCode int, body []byte) string {
	var errResp tokenErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.ErrorDescription != "" {
			return errResp.ErrorDescription
		}
		if errResp.Reason != "" {
			return errResp.Reason
		}
	}
	return fmt.Sprintf("token request failed with status code %d", statusCode)
}

func transportFailure(ctx context.Context, err error, details []byte, statusCode int) models.TokenExchangeResult {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return cancelledFailure(ctx)
	}
	return models.NewTokenExchangeFailure(models.ErrorKindTransport, err.Error(), details, statusCode)
}

func cancelledFailure(ctx context.Context) models.TokenExchangeResult {
	cause := ctx.Err()
	if cause == nil {
		cause = context.Canceled
	}
	return models.NewTokenExchangeFailure(models.ErrorKindCancelled,
		fmt.Sprintf("token exchange cancelled: %v", cause), nil, 0)
}
