// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"github.com/nats-io/nats.go"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
)

// NatsMessage adapts a NATS message to domain.Message.
type NatsMessage struct {
	msg *nats.Msg
}

var _ domain.Message = (*NatsMessage)(nil)

// NewNatsMessage wraps msg.
func NewNatsMessage(msg *nats.Msg) *NatsMessage {
	return &NatsMessage{msg: msg}
}

func (m *NatsMessage) Subject() string {
	return m.msg.Subject
}

func (m *NatsMessage) Data() []byte {
	return m.msg.Data
}

func (m *NatsMessage) Respond(data []byte) error {
	return m.msg.Respond(data)
}

func (m *NatsMessage) HasReply() bool {
	return m.msg.Reply != ""
}
