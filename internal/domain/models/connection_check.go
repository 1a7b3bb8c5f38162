// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

// ConnectionCheck is the per-tenant result of verifying Zoom connectivity.
type ConnectionCheck struct {
	TenantID      string    `json:"tenant_id"`
	Success       bool      `json:"success"`
	ErrorKind     ErrorKind `json:"error_kind,omitempty"`
	Error         string    `json:"error,omitempty"`
	MissingFields []string  `json:"missing_fields,omitempty"`
	ExpiresIn     int       `json:"expires_in,omitempty"`
}

// NewConnectionCheck summarizes an exchange result without the access token.
func NewConnectionCheck(tenantID string, result TokenExchangeResult) ConnectionCheck {
	return ConnectionCheck{
		TenantID:      tenantID,
		Success:       result.Success,
		ErrorKind:     result.ErrorKind,
		Error:         result.ErrorMessage,
		MissingFields: result.MissingFields,
		ExpiresIn:     result.ExpiresIn,
	}
}
