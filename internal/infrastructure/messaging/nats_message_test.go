// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
)

func TestNatsMessage(t *testing.T) {
	msg := NewNatsMessage(&nats.Msg{Subject: "lfx.zoom-tenant.token_exchange", Data: []byte(`{"tenant_id":"acme"}`)})

	assert.Equal(t, "lfx.zoom-tenant.token_exchange", msg.Subject())
	assert.JSONEq(t, `{"tenant_id":"acme"}`, string(msg.Data()))
	assert.False(t, msg.HasReply())

	// A message without a connection cannot be answered.
	assert.Error(t, msg.Respond([]byte("{}")))

	withReply := NewNatsMessage(&nats.Msg{Subject: "s", Reply: "_INBOX.abc"})
	assert.True(t, withReply.HasReply())
}
