// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/metrics"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/pkg/concurrent"
)

// ZoomConfigService manages the Zoom configuration of tenants for the administration dashboard.
type ZoomConfigService struct {
	Repository  domain.TenantCredentialsRepository
	Exchanges   *TokenExchangeService
	EventSender domain.ZoomConfigEventSender
	Metrics     *metrics.TokenExchangeMetrics
	Config      ServiceConfig
	now         func() time.Time
}

// NewZoomConfigService creates a new ZoomConfigService. eventSender and m may be nil.
func NewZoomConfigService(
	repository domain.TenantCredentialsRepository,
	exchanges *TokenExchangeService,
	eventSender domain.ZoomConfigEventSender,
	m *metrics.TokenExchangeMetrics,
	config ServiceConfig,
) *ZoomConfigService {
	return &ZoomConfigService{
		Repository:  repository,
		Exchanges:   exchanges,
		EventSender: eventSender,
		Metrics:     m,
		Config:      config,
		now:         time.Now,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *ZoomConfigService) ServiceReady() bool {
	return s.Repository != nil && s.Exchanges != nil
}

func validateTenantID(tenantID string) (string, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return "", domain.NewValidationError("tenant id is required")
	}
	return tenantID, nil
}

// GetStatus reports which Zoom fields the tenant has configured. An unknown
// tenant is reported as not configured rather than as an error.
func (s *ZoomConfigService) GetStatus(ctx context.Context, tenantID string) (models.ZoomConfigStatus, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return models.ZoomConfigStatus{}, domain.ErrServiceUnavailable
	}
	tenantID, err := validateTenantID(tenantID)
	if err != nil {
		return models.ZoomConfigStatus{}, err
	}
	ctx = logging.WithTenant(ctx, tenantID)

	creds, err := s.Repository.GetCredentials(ctx, tenantID)
	if err != nil && !domain.IsNotFound(err) {
		slog.ErrorContext(ctx, "error getting tenant credentials", logging.ErrKey, err)
		return models.ZoomConfigStatus{}, err
	}

	return creds.Status(tenantID), nil
}

// Configure stores the tenant's Zoom credentials. All three fields are required.
func (s *ZoomConfigService) Configure(ctx context.Context, tenantID string, input models.ZoomConfigInput) (models.ZoomConfigStatus, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return models.ZoomConfigStatus{}, domain.ErrServiceUnavailable
	}
	tenantID, err := validateTenantID(tenantID)
	if err != nil {
		return models.ZoomConfigStatus{}, err
	}
	ctx = logging.WithTenant(ctx, tenantID)

	creds := input.Credentials(tenantID)
	if missing := creds.MissingFields(); len(missing) > 0 {
		return models.ZoomConfigStatus{}, domain.NewValidationError(
			fmt.Sprintf("missing required Zoom credentials: %s", strings.Join(missing, ", ")))
	}

	if err := s.Repository.PutCredentials(ctx, creds); err != nil {
		slog.ErrorContext(ctx, "error storing tenant credentials", logging.ErrKey, err)
		return models.ZoomConfigStatus{}, err
	}

	slog.InfoContext(ctx, "tenant zoom configuration updated",
		"zoom_account_id", creds.ZoomAccountID,
		"zoom_client_id", creds.ZoomClientID,
		logging.Secret("zoom_client_secret", creds.ZoomClientSecret),
	)
	s.recordChange(ctx, models.ZoomConfigUpdatedSubject, "updated", tenantID, true)

	return creds.Status(tenantID), nil
}

// Remove deletes the tenant's Zoom credentials.
func (s *ZoomConfigService) Remove(ctx context.Context, tenantID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.ErrServiceUnavailable
	}
	tenantID, err := validateTenantID(tenantID)
	if err != nil {
		return err
	}
	ctx = logging.WithTenant(ctx, tenantID)

	if err := s.Repository.DeleteCredentials(ctx, tenantID); err != nil {
		if !domain.IsNotFound(err) {
			slog.ErrorContext(ctx, "error deleting tenant credentials", logging.ErrKey, err)
		}
		return err
	}

	slog.InfoContext(ctx, "tenant zoom configuration removed")
	s.recordChange(ctx, models.ZoomConfigDeletedSubject, "deleted", tenantID, false)
	return nil
}

func (s *ZoomConfigService) recordChange(ctx context.Context, subject, action, tenantID string, configured bool) {
	if s.Metrics != nil {
		s.Metrics.ConfigChangesTotal.WithLabelValues(action).Inc()
	}
	if s.EventSender == nil || !s.Config.PublishEvents {
		return
	}
	event := models.ZoomConfigEvent{
		TenantID:   tenantID,
		Configured: configured,
		Timestamp:  s.now().UTC(),
	}
	if err := s.EventSender.SendZoomConfigEvent(ctx, subject, event); err != nil {
		slog.WarnContext(ctx, "zoom config event not published", logging.ErrKey, err, "subject", subject)
	}
}

// VerifyAll runs a token exchange for each tenant and reports whether it
// succeeded. Tokens are discarded. Duplicate and blank ids are skipped.
func (s *ZoomConfigService) VerifyAll(ctx context.Context, tenantIDs []string) ([]models.ConnectionCheck, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}

	seen := make(map[string]struct{}, len(tenantIDs))
	ids := make([]string, 0, len(tenantIDs))
	for _, id := range tenantIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, domain.NewValidationError("at least one tenant id is required")
	}
	if len(ids) > maxVerifyTenants {
		return nil, domain.NewValidationError(fmt.Sprintf("at most %d tenants can be verified at once", maxVerifyTenants))
	}

	workers := s.Config.VerifyConcurrency
	if workers <= 0 {
		workers = defaultVerifyConcurrency
	}
	pool := concurrent.NewWorkerPool(workers)

	checks := concurrent.Map(ctx, pool, ids, func(ctx context.Context, tenantID string) models.ConnectionCheck {
		return models.NewConnectionCheck(tenantID, s.Exchanges.ExchangeToken(ctx, tenantID))
	})

	var failed int
	for _, c := range checks {
		if !c.Success {
			failed++
		}
	}
	slog.InfoContext(ctx, "verified tenant zoom connections", "tenants", len(checks), "failed", failed)

	return checks, nil
}
