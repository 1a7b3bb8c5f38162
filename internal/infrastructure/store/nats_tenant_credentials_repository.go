// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/secrets"
)

// NatsTenantCredentialsRepository is the NATS KV store repository for tenant Zoom credentials.
type NatsTenantCredentialsRepository struct {
	*NatsBaseRepository[models.TenantCredentials]
	keys   *KeyBuilder
	sealer secrets.Sealer
	now    func() time.Time
}

var _ domain.TenantCredentialsRepository = (*NatsTenantCredentialsRepository)(nil)

// NewNatsTenantCredentialsRepository creates a new NATS KV store repository for tenant credentials.
// A nil sealer stores secrets as given.
func NewNatsTenantCredentialsRepository(kv INatsKeyValue, keys *KeyBuilder, sealer secrets.Sealer) *NatsTenantCredentialsRepository {
	if keys == nil {
		keys = NewKeyBuilder("")
	}
	if sealer == nil {
		sealer = secrets.NoopSealer{}
	}
	return &NatsTenantCredentialsRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.TenantCredentials](kv, "tenant credentials"),
		keys:               keys,
		sealer:             sealer,
		now:                time.Now,
	}
}

// GetCredentials returns the stored record, or a not-found error for an unknown tenant.
func (r *NatsTenantCredentialsRepository) GetCredentials(ctx context.Context, tenantID string) (*models.TenantCredentials, error) {
	creds, err := r.Get(ctx, r.keys.TenantKey(tenantID))
	if err != nil {
		return nil, err
	}

	if err := openCredentials(r.sealer, creds); err != nil {
		return nil, err
	}
	// The key is authoritative for the tenant identifier.
	creds.TenantID = tenantID
	return creds, nil
}

// PutCredentials creates or replaces the tenant's record.
func (r *NatsTenantCredentialsRepository) PutCredentials(ctx context.Context, creds *models.TenantCredentials) error {
	if creds == nil || creds.TenantID == "" {
		return domain.NewValidationError("tenant id is required")
	}

	sealed, err := sealCredentials(r.sealer, creds)
	if err != nil {
		return err
	}
	now := r.now().UTC()
	sealed.UpdatedAt = &now

	if err := r.Put(ctx, r.keys.TenantKey(creds.TenantID), sealed); err != nil {
		return err
	}
	creds.UpdatedAt = &now
	return nil
}

// DeleteCredentials removes the tenant's record.
func (r *NatsTenantCredentialsRepository) DeleteCredentials(ctx context.Context, tenantID string) error {
	return r.Delete(ctx, r.keys.TenantKey(tenantID))
}
