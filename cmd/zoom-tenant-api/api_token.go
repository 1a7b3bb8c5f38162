// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
)

// tenantIDParam is the route parameter naming the tenant.
const tenantIDParam = "tenant_id"

// exchangeStatus maps an exchange outcome onto an HTTP status code.
func exchangeStatus(result models.TokenExchangeResult) int {
	if result.Success {
		return http.StatusOK
	}
	switch result.ErrorKind {
	case models.ErrorKindConfiguration:
		return http.StatusBadRequest
	case models.ErrorKindCancelled:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// ExchangeToken mints a Zoom access token from the tenant's stored credentials.
func (s *ZoomTenantAPI) ExchangeToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result := s.exchanges.ExchangeToken(ctx, chi.URLParam(r, tenantIDParam))

	// Tokens must never be cached by intermediaries.
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(ctx, w, exchangeStatus(result), result.Response())
}
