// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/zoom/oauth"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
)

const tracerName = "github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/service"

// ExchangeObserver is notified after every token exchange. Observers must not
// retain the access token.
type ExchangeObserver interface {
	ObserveExchange(ctx context.Context, tenantID string, result models.TokenExchangeResult, elapsed time.Duration)
}

// TokenExchangeService runs token exchanges and reports them to observers.
type TokenExchangeService struct {
	exchanger oauth.TokenExchanger
	observers []ExchangeObserver
	now       func() time.Time
}

// NewTokenExchangeService creates a new TokenExchangeService.
func NewTokenExchangeService(exchanger oauth.TokenExchanger, observers ...ExchangeObserver) *TokenExchangeService {
	return &TokenExchangeService{
		exchanger: exchanger,
		observers: observers,
		now:       time.Now,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *TokenExchangeService) ServiceReady() bool {
	return s.exchanger != nil
}

// ExchangeToken exchanges the tenant's stored credentials for a Zoom access token.
// Failures are reported in the result, never as a panic or error.
func (s *TokenExchangeService) ExchangeToken(ctx context.Context, tenantID string) models.TokenExchangeResult {
	tenantID = strings.TrimSpace(tenantID)
	ctx = logging.WithTenant(ctx, tenantID)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "zoom.token_exchange")
	defer span.End()
	span.SetAttributes(attribute.String(logging.TenantIDKey, tenantID))

	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "token exchange service not initialized", logging.PriorityCritical())
		result := models.NewTokenExchangeFailure(models.ErrorKindCredentialLookup, "token exchange service unavailable", nil, 0)
		span.SetStatus(codes.Error, result.ErrorMessage)
		return result
	}

	start := s.now()
	result := s.exchanger.Exchange(ctx, tenantID)
	elapsed := s.now().Sub(start)

	span.SetAttributes(attribute.String("zoom.exchange.outcome", result.Outcome()))
	if result.StatusCode != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", result.StatusCode))
	}
	if result.Success {
		span.SetStatus(codes.Ok, "")
	} else {
		span.SetStatus(codes.Error, result.ErrorMessage)
	}

	for _, o := range s.observers {
		s.notify(ctx, o, tenantID, result, elapsed)
	}

	return result
}

// notify isolates the exchange result from a misbehaving observer.
func (s *TokenExchangeService) notify(ctx context.Context, o ExchangeObserver, tenantID string, result models.TokenExchangeResult, elapsed time.Duration) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "exchange observer panicked", "panic", r)
		}
	}()
	o.ObserveExchange(ctx, tenantID, result, elapsed)
}
