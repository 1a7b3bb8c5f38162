// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package zoom builds Zoom API clients for individual tenants.
package zoom

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/zoom/api"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
)

// ErrNoActiveUser is returned when a tenant's Zoom account has no active user to read recordings for.
var ErrNoActiveUser = errors.New("zoom account has no active users")

// ClientFactory creates a Zoom API client authenticated as a tenant.
type ClientFactory func(ctx context.Context, tenantID string) api.ClientAPI

// Provider gives access to a tenant's Zoom account.
type Provider struct {
	newClient ClientFactory
}

// NewProvider creates a provider whose clients obtain tokens from exchanger.
// Every client gets its own token source, so a token never outlives the
// request that caused it to be minted.
func NewProvider(exchanger api.TokenExchanger, base api.Config) *Provider {
	return NewProviderWithFactory(func(ctx context.Context, tenantID string) api.ClientAPI {
		config := base
		config.TokenSource = api.NewTenantTokenSource(ctx, exchanger, tenantID)
		return api.NewClient(config)
	})
}

// NewProviderWithFactory creates a provider from a custom client factory.
func NewProviderWithFactory(factory ClientFactory) *Provider {
	return &Provider{newClient: factory}
}

// ListRecordings lists the cloud recordings of userID in the tenant's account.
// When userID is empty the account's first active licensed user is used,
// falling back to the first active user.
func (p *Provider) ListRecordings(ctx context.Context, tenantID, userID string, from, to time.Time) ([]api.Recording, error) {
	client := p.newClient(ctx, tenantID)

	if userID == "" {
		users, err := client.GetUsers(ctx)
		if err != nil {
			return nil, err
		}
		user, err := selectDefaultUser(users)
		if err != nil {
			return nil, err
		}
		userID = user.ID
		slog.DebugContext(ctx, "using default zoom user for recordings", "zoom_user_id", userID)
	}

	recordings, err := client.ListRecordings(ctx, userID, from, to)
	if err != nil {
		slog.ErrorContext(ctx, "error listing tenant recordings", logging.ErrKey, err, "zoom_user_id", userID)
		return nil, err
	}
	return recordings, nil
}

func selectDefaultUser(users []api.ZoomUser) (api.ZoomUser, error) {
	var fallback *api.ZoomUser
	for i := range users {
		u := users[i]
		if u.Status != api.UserStatusActive {
			continue
		}
		if u.Type == api.UserTypeLicensed {
			return u, nil
		}
		if fallback == nil {
			fallback = &users[i]
		}
	}
	if fallback != nil {
		return *fallback, nil
	}
	return api.ZoomUser{}, ErrNoActiveUser
}
