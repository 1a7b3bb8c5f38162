// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
)

// verifyRequest is the body of POST /tenants/zoom/verify.
type verifyRequest struct {
	TenantIDs []string `json:"tenant_ids"`
}

// verifyResponse lists one connection check per requested tenant.
type verifyResponse struct {
	Results []models.ConnectionCheck `json:"results"`
}

// GetZoomStatus reports which Zoom credential fields the tenant has configured.
func (s *ZoomTenantAPI) GetZoomStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := s.configs.GetStatus(ctx, chi.URLParam(r, tenantIDParam))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, status)
}

// PutZoomConfig stores the tenant's Zoom credentials.
func (s *ZoomTenantAPI) PutZoomConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input models.ZoomConfigInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := s.configs.Configure(ctx, chi.URLParam(r, tenantIDParam), input)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, status)
}

// DeleteZoomConfig removes the tenant's Zoom credentials.
func (s *ZoomTenantAPI) DeleteZoomConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.configs.Remove(ctx, chi.URLParam(r, tenantIDParam)); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// VerifyConnections runs a token exchange for each listed tenant and reports the outcomes.
func (s *ZoomTenantAPI) VerifyConnections(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	checks, err := s.configs.VerifyAll(ctx, req.TenantIDs)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, verifyResponse{Results: checks})
}
