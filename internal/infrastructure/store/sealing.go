// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/secrets"
)

// sealCredentials returns a copy of creds with the client secret sealed.
func sealCredentials(sealer secrets.Sealer, creds *models.TenantCredentials) (*models.TenantCredentials, error) {
	sealed := *creds
	secret, err := sealer.Seal(creds.ZoomClientSecret)
	if err != nil {
		return nil, domain.NewInternalError("failed to seal zoom client secret", err)
	}
	sealed.ZoomClientSecret = secret
	return &sealed, nil
}

// openCredentials reverses sealCredentials in place.
func openCredentials(sealer secrets.Sealer, creds *models.TenantCredentials) error {
	secret, err := sealer.Open(creds.ZoomClientSecret)
	if err != nil {
		return domain.NewInternalError("failed to open zoom client secret", err)
	}
	creds.ZoomClientSecret = secret
	return nil
}
