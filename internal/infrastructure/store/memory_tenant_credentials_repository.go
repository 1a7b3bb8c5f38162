// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
)

// MemoryTenantCredentialsRepository keeps tenant credentials in process memory.
// It backs local development and tests.
type MemoryTenantCredentialsRepository struct {
	mu      sync.RWMutex
	tenants map[string]models.TenantCredentials
	now     func() time.Time
}

var _ domain.TenantCredentialsRepository = (*MemoryTenantCredentialsRepository)(nil)

// NewMemoryTenantCredentialsRepository creates an empty repository.
func NewMemoryTenantCredentialsRepository() *MemoryTenantCredentialsRepository {
	return &MemoryTenantCredentialsRepository{
		tenants: make(map[string]models.TenantCredentials),
		now:     time.Now,
	}
}

// tenantSeed is the layout of a seed file:
//
//	tenants:
//	  - tenant_id: acme
//	    zoom_account_id: ...
//	    zoom_client_id: ...
//	    zoom_client_secret: ...
type tenantSeed struct {
	Tenants []models.TenantCredentials `yaml:"tenants"`
}

// LoadSeed reads tenant records from YAML and stores them.
func (r *MemoryTenantCredentialsRepository) LoadSeed(ctx context.Context, in io.Reader) (int, error) {
	var seed tenantSeed
	if err := yaml.NewDecoder(in).Decode(&seed); err != nil && err != io.EOF {
		return 0, fmt.Errorf("decoding tenant seed: %w", err)
	}

	for i := range seed.Tenants {
		creds := seed.Tenants[i]
		creds.TenantID = strings.TrimSpace(creds.TenantID)
		if creds.TenantID == "" {
			return i, fmt.Errorf("tenant seed entry %d has no tenant_id", i)
		}
		if err := r.PutCredentials(ctx, &creds); err != nil {
			return i, err
		}
	}
	return len(seed.Tenants), nil
}

// LoadSeedFile reads tenant records from a YAML file.
func (r *MemoryTenantCredentialsRepository) LoadSeedFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return r.LoadSeed(ctx, f)
}

// GetCredentials returns a copy of the stored credentials or a not-found error.
func (r *MemoryTenantCredentialsRepository) GetCredentials(ctx context.Context, tenantID string) (*models.TenantCredentials, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	creds, ok := r.tenants[tenantID]
	if !ok {
		return nil, domain.NewNotFoundError("tenant credentials not found")
	}
	return &creds, nil
}

// PutCredentials stores a copy of creds and stamps UpdatedAt on both.
func (r *MemoryTenantCredentialsRepository) PutCredentials(ctx context.Context, creds *models.TenantCredentials) error {
	if creds == nil || creds.TenantID == "" {
		return domain.NewValidationError("tenant id is required")
	}

	now := r.now().UTC()
	stored := *creds
	stored.UpdatedAt = &now

	r.mu.Lock()
	r.tenants[creds.TenantID] = stored
	r.mu.Unlock()

	creds.UpdatedAt = &now
	return nil
}

// DeleteCredentials removes the tenant or returns a not-found error.
func (r *MemoryTenantCredentialsRepository) DeleteCredentials(ctx context.Context, tenantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tenants[tenantID]; !ok {
		return domain.NewNotFoundError("tenant credentials not found")
	}
	delete(r.tenants, tenantID)
	return nil
}

// Ping always succeeds.
func (r *MemoryTenantCredentialsRepository) Ping(ctx context.Context) error { return nil }
