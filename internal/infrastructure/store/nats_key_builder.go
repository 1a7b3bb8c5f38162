// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
)

// Common key prefixes
const (
	KeyPrefixTenant = "tenant"

	// pingKey is never written; reading it verifies the bucket answers.
	pingKey = "health.ping"
)

// KeyBuilder provides utilities for building consistent NATS KV keys
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with an optional prefix
func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{
		prefix: prefix,
	}
}

// TenantKey builds the key holding a tenant's record. Tenant identifiers are encoded
// because they may contain characters NATS does not allow in keys.
func (kb *KeyBuilder) TenantKey(tenantID string) string {
	key := fmt.Sprintf("%s.%s", KeyPrefixTenant, kb.EncodeKeyPart(tenantID))
	if kb.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s.%s", kb.prefix, key)
}

// EncodeKeyPart encodes a single key token with the URL-safe, unpadded base64 alphabet,
// whose characters are all valid in NATS keys.
//
// NATS limitations: https://docs.nats.io/nats-concepts/jetstream/key-value-store#notes
func (kb *KeyBuilder) EncodeKeyPart(part string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(part))
}

// DecodeTenantKey returns the tenant identifier encoded in a key built by TenantKey.
func (kb *KeyBuilder) DecodeTenantKey(key string) (string, error) {
	if kb.prefix != "" {
		key = strings.TrimPrefix(key, kb.prefix+".")
	}
	encoded, ok := strings.CutPrefix(key, KeyPrefixTenant+".")
	if !ok || encoded == "" {
		return "", nats.ErrInvalidKey
	}
	decoded, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
