// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
)

// Message represents a domain message interface
type Message interface {
	Subject() string
	Data() []byte
	Respond(data []byte) error
	HasReply() bool
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// TokenExchangeEventSender publishes the outcome of token exchanges.
type TokenExchangeEventSender interface {
	SendTokenExchangeEvent(ctx context.Context, event models.TokenExchangeEvent) error
}

// ZoomConfigEventSender publishes changes to tenant Zoom configuration.
type ZoomConfigEventSender interface {
	SendZoomConfigEvent(ctx context.Context, subject string, event models.ZoomConfigEvent) error
}

// EventSender groups every event the service publishes.
type EventSender interface {
	TokenExchangeEventSender
	ZoomConfigEventSender
}
