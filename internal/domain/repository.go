// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
)

// TenantCredentialsResolver looks up the Zoom credentials stored for a tenant.
// Implementations may return a partial record for a tenant that has not finished
// configuring Zoom, or a not-found DomainError for an unknown tenant.
type TenantCredentialsResolver interface {
	GetCredentials(ctx context.Context, tenantID string) (*models.TenantCredentials, error)
}

// TenantCredentialsRepository defines the storage operations for tenant Zoom credentials.
// This interface can be implemented by different storage backends (NATS, PostgreSQL, memory).
type TenantCredentialsRepository interface {
	TenantCredentialsResolver

	PutCredentials(ctx context.Context, creds *models.TenantCredentials) error
	DeleteCredentials(ctx context.Context, tenantID string) error

	// Ping reports whether the backend can serve requests.
	Ping(ctx context.Context) error
}
