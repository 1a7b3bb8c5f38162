// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/metrics"
)

// LoggingObserver writes one structured record per exchange.
type LoggingObserver struct{}

// ObserveExchange logs failures at warn or error depending on the error kind.
func (LoggingObserver) ObserveExchange(ctx context.Context, tenantID string, result models.TokenExchangeResult, elapsed time.Duration) {
	if result.Success {
		slog.InfoContext(ctx, "zoom token exchange succeeded",
			"token_type", result.TokenType,
			"expires_in", result.ExpiresIn,
			"duration_ms", elapsed.Milliseconds(),
		)
		return
	}

	attrs := []any{
		"error_kind", result.ErrorKind,
		logging.ErrKey, result.ErrorMessage,
		"duration_ms", elapsed.Milliseconds(),
	}
	if result.StatusCode != 0 {
		attrs = append(attrs, "status_code", result.StatusCode)
	}
	if len(result.MissingFields) > 0 {
		attrs = append(attrs, "missing_fields", result.MissingFields)
	}

	switch result.ErrorKind {
	case models.ErrorKindConfiguration, models.ErrorKindCancelled:
		slog.WarnContext(ctx, "zoom token exchange failed", attrs...)
	default:
		slog.ErrorContext(ctx, "zoom token exchange failed", attrs...)
	}
}

// MetricsObserver counts exchanges and records their duration by outcome.
type MetricsObserver struct {
	Metrics *metrics.TokenExchangeMetrics
}

// ObserveExchange is a no-op when Metrics is nil.
func (o MetricsObserver) ObserveExchange(ctx context.Context, tenantID string, result models.TokenExchangeResult, elapsed time.Duration) {
	if o.Metrics == nil {
		return
	}
	outcome := result.Outcome()
	o.Metrics.ExchangesTotal.WithLabelValues(outcome).Inc()
	o.Metrics.ExchangeDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// EventObserver publishes a TokenExchangeEvent for every exchange.
type EventObserver struct {
	Sender domain.TokenExchangeEventSender
	Now    func() time.Time
}

// ObserveExchange is a no-op when Sender is nil.
func (o EventObserver) ObserveExchange(ctx context.Context, tenantID string, result models.TokenExchangeResult, elapsed time.Duration) {
	if o.Sender == nil {
		return
	}
	now := time.Now
	if o.Now != nil {
		now = o.Now
	}

	event := models.TokenExchangeEvent{
		TenantID:   tenantID,
		Success:    result.Success,
		ErrorKind:  result.ErrorKind,
		StatusCode: result.StatusCode,
		DurationMS: elapsed.Milliseconds(),
		Timestamp:  now().UTC(),
	}
	// Publishing is best effort; the sender logs its own failures.
	if err := o.Sender.SendTokenExchangeEvent(ctx, event); err != nil {
		slog.DebugContext(ctx, "token exchange event not published", logging.ErrKey, err)
	}
}
