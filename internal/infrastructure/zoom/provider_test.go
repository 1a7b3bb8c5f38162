// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package zoom

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/zoom/api"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/zoom/api/mocks"
)

func TestSelectDefaultUser(t *testing.T) {
	tests := []struct {
		name     string
		users    []api.ZoomUser
		expected string
		err      error
	}{
		{
			name: "prefers active licensed user",
			users: []api.ZoomUser{
				{ID: "basic", Type: api.UserTypeBasic, Status: api.UserStatusActive},
				{ID: "inactive-licensed", Type: api.UserTypeLicensed, Status: api.UserStatusInactive},
				{ID: "licensed", Type: api.UserTypeLicensed, Status: api.UserStatusActive},
			},
			expected: "licensed",
		},
		{
			name: "falls back to first active user",
			users: []api.ZoomUser{
				{ID: "pending", Type: api.UserTypeBasic, Status: api.UserStatusPending},
				{ID: "basic", Type: api.UserTypeBasic, Status: api.UserStatusActive},
			},
			expected: "basic",
		},
		{
			name:  "no active users",
			users: []api.ZoomUser{{ID: "gone", Status: api.UserStatusInactive}},
			err:   ErrNoActiveUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := selectDefaultUser(tt.users)
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected error %v, got %v", tt.err, err)
			}
			if user.ID != tt.expected {
				t.Errorf("expected user %q, got %q", tt.expected, user.ID)
			}
		})
	}
}

func TestProvider_ListRecordings_DefaultUser(t *testing.T) {
	client := mocks.NewMockClient()
	var requestedUser string
	client.ListRecordingsFunc = func(ctx context.Context, userID string, from, to time.Time) ([]api.Recording, error) {
		requestedUser = userID
		return []api.Recording{{UUID: "r1"}}, nil
	}

	var tenants []string
	provider := NewProviderWithFactory(func(ctx context.Context, tenantID string) api.ClientAPI {
		tenants = append(tenants, tenantID)
		return client
	})

	recordings, err := provider.ListRecordings(context.Background(), "acme", "", time.Now(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recordings) != 1 {
		t.Errorf("expected 1 recording, got %d", len(recordings))
	}
	// The default users mock lists user1 as the first active licensed user.
	if requestedUser != "user1" {
		t.Errorf("expected default user user1, got %q", requestedUser)
	}
	if len(tenants) != 1 || tenants[0] != "acme" {
		t.Errorf("expected one client for acme, got %v", tenants)
	}
}

func TestProvider_ListRecordings_Errors(t *testing.T) {
	client := mocks.NewMockClient()
	client.GetUsersFunc = func(ctx context.Context) ([]api.ZoomUser, error) {
		return nil, errors.New("boom")
	}
	provider := NewProviderWithFactory(func(ctx context.Context, tenantID string) api.ClientAPI { return client })

	if _, err := provider.ListRecordings(context.Background(), "acme", "", time.Now(), time.Now()); err == nil {
		t.Error("expected users error to propagate")
	}

	client.ListRecordingsFunc = func(ctx context.Context, userID string, from, to time.Time) ([]api.Recording, error) {
		return nil, &api.APIError{StatusCode: http.StatusNotFound, Code: 1001, Message: "User does not exist"}
	}
	_, err := provider.ListRecordings(context.Background(), "acme", "someone", time.Now(), time.Now())
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("expected APIError, got %v", err)
	}
}

type countingExchanger struct {
	calls atomic.Int32
}

func (c *countingExchanger) ExchangeToken(ctx context.Context, tenantID string) models.TokenExchangeResult {
	c.calls.Add(1)
	return models.NewTokenExchangeSuccess("tok-"+tenantID, "bearer", 3600)
}

func TestNewProvider_OneExchangePerCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-acme" {
			t.Errorf("unexpected authorization %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/users" {
			_, _ = w.Write([]byte(`{"users":[{"id":"u1","type":2,"status":"active"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"meetings":[]}`))
	}))
	defer server.Close()

	exchanger := &countingExchanger{}
	provider := NewProvider(exchanger, api.Config{BaseURL: server.URL, Transport: http.DefaultTransport})

	for i := 0; i < 2; i++ {
		if _, err := provider.ListRecordings(context.Background(), "acme", "", time.Now(), time.Now()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// Users and recordings share a token within a call; nothing is cached across calls.
	if exchanger.calls.Load() != 2 {
		t.Errorf("expected 2 exchanges, got %d", exchanger.calls.Load())
	}
}
