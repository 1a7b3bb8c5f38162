// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
)

// TokenExchanger produces a fresh token exchange result for a tenant.
type TokenExchanger interface {
	ExchangeToken(ctx context.Context, tenantID string) models.TokenExchangeResult
}

// TokenError carries a failed exchange through the oauth2 transport.
type TokenError struct {
	Result models.TokenExchangeResult
}

func (e *TokenError) Error() string {
	return "zoom token exchange failed: " + e.Result.ErrorMessage
}

// tenantTokenSource adapts a TokenExchanger to oauth2.TokenSource.
type tenantTokenSource struct {
	ctx       context.Context
	tenantID  string
	exchanger TokenExchanger
	now       func() time.Time
}

// NewTenantTokenSource returns a token source that performs one exchange per
// Token call. Wrap it with oauth2.ReuseTokenSource (NewClient does) to reuse
// a token for the lifetime of one client.
func NewTenantTokenSource(ctx context.Context, exchanger TokenExchanger, tenantID string) oauth2.TokenSource {
	return &tenantTokenSource{ctx: ctx, tenantID: tenantID, exchanger: exchanger, now: time.Now}
}

func (s *tenantTokenSource) Token() (*oauth2.Token, error) {
	result := s.exchanger.ExchangeToken(s.ctx, s.tenantID)
	if !result.Success {
		return nil, &TokenError{Result: result}
	}

	token := &oauth2.Token{
		AccessToken: result.AccessToken,
		TokenType:   result.TokenType,
	}
	if result.ExpiresIn > 0 {
		token.Expiry = s.now().Add(time.Duration(result.ExpiresIn) * time.Second)
	}
	return token, nil
}
