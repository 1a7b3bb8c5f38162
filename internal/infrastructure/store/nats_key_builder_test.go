// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"regexp"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validNatsKey = regexp.MustCompile(`^[-/_=.a-zA-Z0-9]+$`)

func TestKeyBuilder_TenantKey(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		tenantID string
		expected string
	}{
		{"simple id", "", "acme", "tenant.YWNtZQ"},
		{"with prefix", "dev", "acme", "dev.tenant.YWNtZQ"},
		{"id with dots and spaces", "", "acme corp.eu", "tenant.YWNtZSBjb3JwLmV1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := NewKeyBuilder(tt.prefix)
			key := kb.TenantKey(tt.tenantID)
			assert.Equal(t, tt.expected, key)
			assert.Regexp(t, validNatsKey, key)
		})
	}
}

func TestKeyBuilder_TenantKeyIsAlwaysValid(t *testing.T) {
	kb := NewKeyBuilder("")
	for _, id := range []string{"a/b", "ü>*", "tenant+1==", "  ", "org:team"} {
		assert.Regexp(t, validNatsKey, kb.TenantKey(id), "tenant id %q", id)
	}
}

func TestKeyBuilder_DecodeTenantKey(t *testing.T) {
	for _, prefix := range []string{"", "staging"} {
		kb := NewKeyBuilder(prefix)
		for _, id := range []string{"acme", "org:team/ü", "a.b.c"} {
			decoded, err := kb.DecodeTenantKey(kb.TenantKey(id))
			require.NoError(t, err)
			assert.Equal(t, id, decoded)
		}
	}

	_, err := NewKeyBuilder("").DecodeTenantKey("recording.abc")
	assert.ErrorIs(t, err, nats.ErrInvalidKey)

	_, err = NewKeyBuilder("").DecodeTenantKey("tenant.***")
	assert.Error(t, err)
}
