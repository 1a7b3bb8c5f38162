// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/zoom/api"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/service"
)

type recordingsResponse struct {
	Recordings []api.Recording `json:"recordings"`
}

// parseDateParam accepts a calendar date or an RFC 3339 timestamp.
func parseDateParam(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError(fmt.Sprintf("invalid %s: expected YYYY-MM-DD or RFC 3339", name))
	}
	return t.UTC(), nil
}

// ListRecordings lists the tenant's Zoom cloud recordings.
func (s *ZoomTenantAPI) ListRecordings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	from, err := parseDateParam("from", q.Get("from"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	to, err := parseDateParam("to", q.Get("to"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	query := service.RecordingQuery{UserID: q.Get("user_id"), From: from, To: to}
	recordings, err := s.recordings.ListRecordings(ctx, chi.URLParam(r, tenantIDParam), query)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if recordings == nil {
		recordings = []api.Recording{}
	}

	writeJSON(ctx, w, http.StatusOK, recordingsResponse{Recordings: recordings})
}
