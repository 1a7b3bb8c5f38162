// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"strings"
	"time"
)

// Names of the Zoom credential fields a tenant must have before a token exchange.
const (
	FieldZoomAccountID    = "zoom_account_id"
	FieldZoomClientID     = "zoom_client_id"
	FieldZoomClientSecret = "zoom_client_secret"
)

// RequiredCredentialFields lists the required fields in the order they are reported.
var RequiredCredentialFields = []string{
	FieldZoomAccountID,
	FieldZoomClientID,
	FieldZoomClientSecret,
}

// TenantCredentials is the Zoom Server-to-Server OAuth app registered by a tenant.
// A record with empty fields is valid: the tenant exists but has not finished
// configuring Zoom yet.
type TenantCredentials struct {
	TenantID         string     `json:"tenant_id" yaml:"tenant_id"`
	ZoomAccountID    string     `json:"zoom_account_id" yaml:"zoom_account_id"`
	ZoomClientID     string     `json:"zoom_client_id" yaml:"zoom_client_id"`
	ZoomClientSecret string     `json:"zoom_client_secret" yaml:"zoom_client_secret"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty" yaml:"-"`
}

// MissingFields returns the required fields that are empty or blank.
// A nil record is missing every field.
func (c *TenantCredentials) MissingFields() []string {
	if c == nil {
		return append([]string(nil), RequiredCredentialFields...)
	}

	var missing []string
	for _, field := range RequiredCredentialFields {
		if strings.TrimSpace(c.value(field)) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// IsConfigured reports whether every required field is present.
func (c *TenantCredentials) IsConfigured() bool {
	return len(c.MissingFields()) == 0
}

// Status summarizes the record for display without exposing the client secret.
func (c *TenantCredentials) Status(tenantID string) ZoomConfigStatus {
	status := ZoomConfigStatus{
		TenantID:      tenantID,
		MissingFields: c.MissingFields(),
	}
	if status.MissingFields == nil {
		status.MissingFields = []string{}
	}
	status.Configured = len(status.MissingFields) == 0
	if c == nil {
		return status
	}

	status.HasAccountID = strings.TrimSpace(c.ZoomAccountID) != ""
	status.HasClientID = strings.TrimSpace(c.ZoomClientID) != ""
	status.HasClientSecret = strings.TrimSpace(c.ZoomClientSecret) != ""
	status.AccountID = c.ZoomAccountID
	status.ClientID = c.ZoomClientID
	status.UpdatedAt = c.UpdatedAt
	return status
}

func (c *TenantCredentials) value(field string) string {
	switch field {
	case FieldZoomAccountID:
		return c.ZoomAccountID
	case FieldZoomClientID:
		return c.ZoomClientID
	case FieldZoomClientSecret:
		return c.ZoomClientSecret
	}
	return ""
}

// ZoomConfigStatus is what the administration dashboard shows for a tenant.
type ZoomConfigStatus struct {
	TenantID        string     `json:"tenant_id"`
	Configured      bool       `json:"configured"`
	HasAccountID    bool       `json:"has_account_id"`
	HasClientID     bool       `json:"has_client_id"`
	HasClientSecret bool       `json:"has_client_secret"`
	MissingFields   []string   `json:"missing_fields"`
	AccountID       string     `json:"zoom_account_id,omitempty"`
	ClientID        string     `json:"zoom_client_id,omitempty"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// ZoomConfigInput is the body of a "configure Zoom" request.
type ZoomConfigInput struct {
	ZoomAccountID    string `json:"zoom_account_id"`
	ZoomClientID     string `json:"zoom_client_id"`
	ZoomClientSecret string `json:"zoom_client_secret"`
}

// Credentials converts the input into a credentials record for the tenant.
func (in ZoomConfigInput) Credentials(tenantID string) *TenantCredentials {
	return &TenantCredentials{
		TenantID:         tenantID,
		ZoomAccountID:    strings.TrimSpace(in.ZoomAccountID),
		ZoomClientID:     strings.TrimSpace(in.ZoomClientID),
		ZoomClientSecret: strings.TrimSpace(in.ZoomClientSecret),
	}
}
