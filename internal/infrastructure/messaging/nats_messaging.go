// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
)

// ErrNotConnected is returned when publishing without a live NATS connection.
var ErrNotConnected = errors.New("nats connection is not established")

// INatsConn is the subset of *nats.Conn used by the [MessageBuilder].
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
	Request(subj string, data []byte, timeout time.Duration) (*nats.Msg, error)
}

// MessageBuilder is the builder for the message and sends it to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

var _ domain.EventSender = (*MessageBuilder)(nil)

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// publish sends the message to the NATS server.
func (m *MessageBuilder) publish(ctx context.Context, subject string, data []byte) error {
	if m.NatsConn == nil {
		return ErrNotConnected
	}
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// request sends the message and waits for a single reply.
func (m *MessageBuilder) request(ctx context.Context, subject string, data []byte, timeout time.Duration) (*nats.Msg, error) {
	if m.NatsConn == nil {
		return nil, ErrNotConnected
	}
	msg, err := m.NatsConn.Request(subject, data, timeout)
	if err != nil {
		slog.ErrorContext(ctx, "error sending request to NATS", logging.ErrKey, err, "subject", subject)
		return nil, err
	}
	return msg, nil
}

func (m *MessageBuilder) publishJSON(ctx context.Context, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling data into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}
	return m.publish(ctx, subject, data)
}

// SendTokenExchangeEvent publishes the outcome of a token exchange.
func (m *MessageBuilder) SendTokenExchangeEvent(ctx context.Context, event models.TokenExchangeEvent) error {
	return m.publishJSON(ctx, models.TokenExchangeCompletedSubject, event)
}

// SendZoomConfigEvent publishes a change to a tenant's Zoom configuration on subject.
func (m *MessageBuilder) SendZoomConfigEvent(ctx context.Context, subject string, event models.ZoomConfigEvent) error {
	return m.publishJSON(ctx, subject, event)
}

// RequestTokenExchange asks a running service instance to exchange credentials
// for tenantID and decodes its reply.
func (m *MessageBuilder) RequestTokenExchange(ctx context.Context, tenantID string, timeout time.Duration) (*models.TokenExchangeResponse, error) {
	data, err := json.Marshal(models.TokenExchangeRequest{TenantID: tenantID})
	if err != nil {
		return nil, err
	}

	msg, err := m.request(ctx, models.TokenExchangeSubject, data, timeout)
	if err != nil {
		return nil, err
	}

	var resp models.TokenExchangeResponse
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		slog.ErrorContext(ctx, "error decoding token exchange reply", logging.ErrKey, err)
		return nil, err
	}
	return &resp, nil
}
