// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
)

// MockEventSender implements domain.EventSender for testing
type MockEventSender struct {
	mock.Mock
}

var _ domain.EventSender = (*MockEventSender)(nil)

func (m *MockEventSender) SendTokenExchangeEvent(ctx context.Context, event models.TokenExchangeEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventSender) SendZoomConfigEvent(ctx context.Context, subject string, event models.ZoomConfigEvent) error {
	args := m.Called(ctx, subject, event)
	return args.Error(0)
}
