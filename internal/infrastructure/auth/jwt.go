// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package auth validates the Heimdall-issued JWTs that protect the administration endpoints.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
)

const (
	// PS256 is the default for Heimdall's JWT finalizer.
	signatureAlgorithm = validator.PS256
	defaultIssuer      = "heimdall"
	defaultAudience    = "lfx-v2-zoom-tenant-service"
	defaultJWKSURL     = "http://heimdall:4457/.well-known/jwks"
	jwksCacheTTL       = 5 * time.Minute
	allowedClockSkew   = 5 * time.Second
)

// IJWTAuth parses the principal out of a bearer token.
type IJWTAuth interface {
	ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error)
}

// JWTAuthConfig holds the JWT validation settings.
type JWTAuthConfig struct {
	// JWKSURL is the URL of Heimdall's JSON Web Key Set.
	JWKSURL string
	// Audience is the expected "aud" claim.
	Audience string
	// MockLocalPrincipal disables validation and returns this principal for every token.
	// It must only be set for local development.
	MockLocalPrincipal string
}

// HeimdallClaims contains the custom claims set by Heimdall.
type HeimdallClaims struct {
	Principal string `json:"principal"`
	Email     string `json:"email,omitempty"`
}

// Validate implements validator.CustomClaims.
func (c *HeimdallClaims) Validate(ctx context.Context) error {
	if c.Principal == "" {
		return errors.New("principal must be provided")
	}
	return nil
}

// JWTAuth validates tokens against Heimdall's JWKS.
type JWTAuth struct {
	validator *validator.Validator
	config    JWTAuthConfig
}

var _ IJWTAuth = (*JWTAuth)(nil)

// NewJWTAuth creates a JWTAuth. Keys are fetched lazily and cached.
func NewJWTAuth(config JWTAuthConfig) (*JWTAuth, error) {
	if config.JWKSURL == "" {
		config.JWKSURL = defaultJWKSURL
	}
	if config.Audience == "" {
		config.Audience = defaultAudience
	}

	jwksURL, err := url.Parse(config.JWKSURL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWKS URL: %w", err)
	}
	issuer, err := url.Parse(defaultIssuer)
	if err != nil {
		return nil, fmt.Errorf("invalid issuer: %w", err)
	}

	provider := jwks.NewCachingProvider(issuer, jwksCacheTTL, jwks.WithCustomJWKSURI(jwksURL))

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		signatureAlgorithm,
		issuer.String(),
		[]string{config.Audience},
		validator.WithCustomClaims(func() validator.CustomClaims { return &HeimdallClaims{} }),
		validator.WithAllowedClockSkew(allowedClockSkew),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up JWT validator: %w", err)
	}

	return &JWTAuth{
		validator: jwtValidator,
		config:    config,
	}, nil
}

// ParsePrincipal validates the token and returns its principal claim.
func (j *JWTAuth) ParsePrincipal(ctx context.Context, token string, logger *slog.Logger) (string, error) {
	if j.config.MockLocalPrincipal != "" {
		logger.WarnContext(ctx, "JWT validation is disabled, returning mock principal",
			"principal", j.config.MockLocalPrincipal)
		return j.config.MockLocalPrincipal, nil
	}

	if j.validator == nil {
		return "", domain.NewUnavailableError("JWT validator is not set up")
	}

	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))

	parsed, err := j.validator.ValidateToken(ctx, token)
	if err != nil {
		logger.DebugContext(ctx, "JWT validation failed", "error", err)
		return "", domain.NewUnauthorizedError("invalid bearer token", err)
	}

	claims, ok := parsed.(*validator.ValidatedClaims)
	if !ok {
		return "", domain.NewUnauthorizedError("unexpected claims type")
	}
	custom, ok := claims.CustomClaims.(*HeimdallClaims)
	if !ok {
		return "", domain.NewUnauthorizedError("missing Heimdall claims")
	}

	return custom.Principal, nil
}
