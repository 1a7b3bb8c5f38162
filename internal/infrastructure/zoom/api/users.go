// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"log/slog"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
)

// User type constants for Zoom API
const (
	UserTypeBasic    = 1
	UserTypeLicensed = 2
	UserTypeOnPrem   = 3
)

// User status constants for Zoom API
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
	UserStatusPending  = "pending"
)

// ZoomUser represents a user in the Zoom account
type ZoomUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Type      int    `json:"type"`
	Status    string `json:"status"`
}

// ZoomUsersResponse represents the response from the users API
type ZoomUsersResponse struct {
	PageCount   int        `json:"page_count"`
	PageNumber  int        `json:"page_number"`
	PageSize    int        `json:"page_size"`
	TotalRecord int        `json:"total_records"`
	Users       []ZoomUser `json:"users"`
}

// GetUsers retrieves the active users of the tenant's Zoom account
func (c *Client) GetUsers(ctx context.Context) ([]ZoomUser, error) {
	ctx = logging.AppendCtx(ctx, slog.String("zoom_operation", "get_users"))

	var usersResp ZoomUsersResponse
	if err := c.getJSON(ctx, "/users?status=active&page_size=100", &usersResp); err != nil {
		slog.ErrorContext(ctx, "failed to get Zoom users", logging.ErrKey, err)
		return nil, err
	}

	slog.DebugContext(ctx, "retrieved Zoom users",
		"user_count", len(usersResp.Users),
		"total_records", usersResp.TotalRecord)

	return usersResp.Users, nil
}
