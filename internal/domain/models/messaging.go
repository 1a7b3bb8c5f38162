// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import "time"

// NATS subjects used by the zoom tenant service.
const (
	// TokenExchangeSubject is the request/reply subject other services use to obtain
	// a Zoom access token for a tenant.
	// The subject is of the form: lfx.zoom-tenant.token_exchange
	TokenExchangeSubject = "lfx.zoom-tenant.token_exchange"

	// TokenExchangeCompletedSubject carries an event for every finished exchange.
	// The subject is of the form: lfx.zoom-tenant.token_exchange.completed
	TokenExchangeCompletedSubject = "lfx.zoom-tenant.token_exchange.completed"

	// ZoomConfigUpdatedSubject carries an event when a tenant's Zoom configuration changes.
	// The subject is of the form: lfx.zoom-tenant.config.updated
	ZoomConfigUpdatedSubject = "lfx.zoom-tenant.config.updated"

	// ZoomConfigDeletedSubject carries an event when a tenant's Zoom configuration is removed.
	// The subject is of the form: lfx.zoom-tenant.config.deleted
	ZoomConfigDeletedSubject = "lfx.zoom-tenant.config.deleted"
)

// TokenExchangeRequest is the payload of a token exchange request message.
type TokenExchangeRequest struct {
	TenantID string `json:"tenant_id"`
}

// TokenExchangeEvent describes a finished exchange. It never carries the token.
type TokenExchangeEvent struct {
	TenantID   string    `json:"tenant_id"`
	Success    bool      `json:"success"`
	ErrorKind  ErrorKind `json:"error_kind,omitempty"`
	StatusCode int       `json:"status_code,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	Timestamp  time.Time `json:"timestamp"`
}

// ZoomConfigEvent describes a change to a tenant's Zoom configuration.
type ZoomConfigEvent struct {
	TenantID   string    `json:"tenant_id"`
	Configured bool      `json:"configured"`
	Timestamp  time.Time `json:"timestamp"`
}
