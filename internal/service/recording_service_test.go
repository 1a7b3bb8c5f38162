// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/zoom"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/zoom/api"
)

type fakeLister struct {
	tenantID string
	userID   string
	from, to time.Time
	err      error
}

func (f *fakeLister) ListRecordings(ctx context.Context, tenantID, userID string, from, to time.Time) ([]api.Recording, error) {
	f.tenantID, f.userID, f.from, f.to = tenantID, userID, from, to
	if f.err != nil {
		return nil, f.err
	}
	return []api.Recording{{UUID: "rec-1", Topic: "Weekly sync"}}, nil
}

func TestRecordingService_ListRecordings_DefaultWindow(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	lister := &fakeLister{}
	svc := NewRecordingService(lister)
	svc.now = func() time.Time { return now }

	recordings, err := svc.ListRecordings(context.Background(), " acme ", RecordingQuery{UserID: "u1"})

	require.NoError(t, err)
	assert.Len(t, recordings, 1)
	assert.Equal(t, "acme", lister.tenantID)
	assert.Equal(t, "u1", lister.userID)
	assert.Equal(t, now, lister.to)
	assert.Equal(t, now.Add(-7*24*time.Hour), lister.from)
}

func TestRecordingService_ListRecordings_Window(t *testing.T) {
	day := 24 * time.Hour
	to := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		query   RecordingQuery
		wantErr bool
	}{
		{name: "explicit range", query: RecordingQuery{From: to.Add(-10 * day), To: to}},
		{name: "maximum range", query: RecordingQuery{From: to.Add(-30 * day), To: to}},
		{name: "range too long", query: RecordingQuery{From: to.Add(-31 * day), To: to}, wantErr: true},
		{name: "start after end", query: RecordingQuery{From: to.Add(day), To: to}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lister := &fakeLister{}
			svc := NewRecordingService(lister)

			_, err := svc.ListRecordings(context.Background(), "acme", tt.query)
			if tt.wantErr {
				assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
				assert.Empty(t, lister.tenantID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.query.From, lister.from)
			assert.Equal(t, tt.query.To, lister.to)
		})
	}
}

func TestRecordingService_ListRecordings_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected domain.ErrorType
	}{
		{
			name:     "tenant not configured",
			err:      &api.TokenError{Result: models.NewConfigurationFailure([]string{models.FieldZoomClientSecret})},
			expected: domain.ErrorTypeValidation,
		},
		{
			name:     "credential store down",
			err:      &api.TokenError{Result: models.NewTokenExchangeFailure(models.ErrorKindCredentialLookup, "kv down", nil, 0)},
			expected: domain.ErrorTypeInternal,
		},
		{
			name:     "zoom rejected credentials",
			err:      fmt.Errorf("get: %w", &api.TokenError{Result: models.NewTokenExchangeFailure(models.ErrorKindUpstreamAuth, "invalid client", nil, 401)}),
			expected: domain.ErrorTypeUnavailable,
		},
		{
			name:     "no active user",
			err:      zoom.ErrNoActiveUser,
			expected: domain.ErrorTypeNotFound,
		},
		{
			name:     "unknown zoom user",
			err:      &api.APIError{StatusCode: http.StatusNotFound, Code: 1001, Message: "User does not exist"},
			expected: domain.ErrorTypeNotFound,
		},
		{
			name:     "bad request",
			err:      &api.APIError{StatusCode: http.StatusBadRequest, Message: "Invalid field"},
			expected: domain.ErrorTypeValidation,
		},
		{
			name:     "zoom outage",
			err:      &api.APIError{StatusCode: http.StatusServiceUnavailable},
			expected: domain.ErrorTypeUnavailable,
		},
		{
			name:     "network failure",
			err:      errors.New("connection reset"),
			expected: domain.ErrorTypeUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewRecordingService(&fakeLister{err: tt.err})

			_, err := svc.ListRecordings(context.Background(), "acme", RecordingQuery{})
			require.Error(t, err)
			assert.Equal(t, tt.expected, domain.GetErrorType(err))
		})
	}
}

func TestRecordingService_NotReady(t *testing.T) {
	_, err := NewRecordingService(nil).ListRecordings(context.Background(), "acme", RecordingQuery{})
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
}
