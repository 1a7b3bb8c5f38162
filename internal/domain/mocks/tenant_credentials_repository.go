// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
)

// MockTenantCredentialsRepository implements domain.TenantCredentialsRepository for testing
type MockTenantCredentialsRepository struct {
	mock.Mock
}

var _ domain.TenantCredentialsRepository = (*MockTenantCredentialsRepository)(nil)

func (m *MockTenantCredentialsRepository) GetCredentials(ctx context.Context, tenantID string) (*models.TenantCredentials, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantCredentials), args.Error(1)
}

func (m *MockTenantCredentialsRepository) PutCredentials(ctx context.Context, creds *models.TenantCredentials) error {
	args := m.Called(ctx, creds)
	return args.Error(0)
}

func (m *MockTenantCredentialsRepository) DeleteCredentials(ctx context.Context, tenantID string) error {
	args := m.Called(ctx, tenantID)
	return args.Error(0)
}

func (m *MockTenantCredentialsRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
