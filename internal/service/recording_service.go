// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/zoom"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/zoom/api"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
)

// Zoom only serves recordings within a one month window per request.
const (
	defaultRecordingWindow = 7 * 24 * time.Hour
	maxRecordingWindow     = 30 * 24 * time.Hour
)

// RecordingLister lists a tenant's cloud recordings.
type RecordingLister interface {
	ListRecordings(ctx context.Context, tenantID, userID string, from, to time.Time) ([]api.Recording, error)
}

// RecordingQuery selects the recordings to list. Zero times select the last week.
type RecordingQuery struct {
	UserID string
	From   time.Time
	To     time.Time
}

// RecordingService exposes a tenant's Zoom cloud recordings using tokens minted
// from the tenant's own credentials.
type RecordingService struct {
	Lister RecordingLister
	now    func() time.Time
}

// NewRecordingService creates a new RecordingService.
func NewRecordingService(lister RecordingLister) *RecordingService {
	return &RecordingService{
		Lister: lister,
		now:    time.Now,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *RecordingService) ServiceReady() bool {
	return s.Lister != nil
}

// ListRecordings lists the tenant's recordings in the query window.
func (s *RecordingService) ListRecordings(ctx context.Context, tenantID string, query RecordingQuery) ([]api.Recording, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.ErrServiceUnavailable
	}
	tenantID, err := validateTenantID(tenantID)
	if err != nil {
		return nil, err
	}
	ctx = logging.WithTenant(ctx, tenantID)

	from, to, err := s.window(query)
	if err != nil {
		return nil, err
	}

	recordings, err := s.Lister.ListRecordings(ctx, tenantID, query.UserID, from, to)
	if err != nil {
		return nil, recordingError(err)
	}
	return recordings, nil
}

func (s *RecordingService) window(query RecordingQuery) (time.Time, time.Time, error) {
	to := query.To
	if to.IsZero() {
		to = s.now().UTC()
	}
	from := query.From
	if from.IsZero() {
		from = to.Add(-defaultRecordingWindow)
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, domain.NewValidationError("recording range start must not be after its end")
	}
	if to.Sub(from) > maxRecordingWindow {
		return time.Time{}, time.Time{}, domain.NewValidationError(
			fmt.Sprintf("recording range must not exceed %d days", int(maxRecordingWindow.Hours()/24)))
	}
	return from, to, nil
}

// recordingError maps Zoom client failures onto domain errors.
func recordingError(err error) error {
	var tokenErr *api.TokenError
	if errors.As(err, &tokenErr) {
		switch tokenErr.Result.ErrorKind {
		case models.ErrorKindConfiguration:
			return domain.NewValidationError(tokenErr.Result.ErrorMessage)
		case models.ErrorKindCredentialLookup:
			return domain.NewInternalError("could not read tenant credentials", err)
		default:
			return domain.NewUnavailableError("zoom token exchange failed", err)
		}
	}

	if errors.Is(err, zoom.ErrNoActiveUser) {
		return domain.NewNotFoundError(err.Error())
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			return domain.NewNotFoundError("zoom user not found", err)
		case http.StatusBadRequest:
			return domain.NewValidationError("zoom rejected the recordings request", err)
		}
	}

	return domain.NewUnavailableError("zoom recordings unavailable", err)
}
