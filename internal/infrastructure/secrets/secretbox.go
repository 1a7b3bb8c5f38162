// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package secrets seals credential values before they are written to a store.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// SealedPrefix marks values produced by SecretBox.Seal.
	SealedPrefix = "sb1:"

	keySize   = 32
	nonceSize = 24
)

var (
	// ErrInvalidKey is returned when the configured key is not 32 bytes of base64.
	ErrInvalidKey = errors.New("secretbox key must be 32 bytes encoded as base64")
	// ErrOpenFailed is returned when a sealed value cannot be authenticated.
	ErrOpenFailed = errors.New("unable to open sealed value")
)

// Sealer encrypts and decrypts individual string values.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(value string) (string, error)
}

// SecretBox seals values with NaCl secretbox (XSalsa20-Poly1305).
type SecretBox struct {
	key  [keySize]byte
	rand io.Reader
}

// NewSecretBox parses a base64 encoded 32 byte key.
func NewSecretBox(encodedKey string) (*SecretBox, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encodedKey))
	if err != nil || len(raw) != keySize {
		return nil, ErrInvalidKey
	}
	sb := &SecretBox{rand: rand.Reader}
	copy(sb.key[:], raw)
	return sb, nil
}

// NewSealer returns a SecretBox when a key is configured and a pass-through sealer otherwise.
func NewSealer(encodedKey string) (Sealer, error) {
	if strings.TrimSpace(encodedKey) == "" {
		return NoopSealer{}, nil
	}
	return NewSecretBox(encodedKey)
}

// Seal encrypts plaintext. Empty values are left empty so that a missing
// field is still reported as missing after a round trip.
func (s *SecretBox) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(s.rand, nonce[:]); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	out := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return SealedPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// Open decrypts a value produced by Seal. Values without the sealed prefix
// are returned unchanged, which lets stores written before sealing was
// enabled keep working.
func (s *SecretBox) Open(value string) (string, error) {
	encoded, ok := strings.CutPrefix(value, SealedPrefix)
	if !ok {
		return value, nil
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrOpenFailed
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plaintext, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrOpenFailed
	}
	return string(plaintext), nil
}

// NoopSealer stores values as given.
type NoopSealer struct{}

func (NoopSealer) Seal(plaintext string) (string, error) { return plaintext, nil }

// Open refuses sealed values since there is no key to open them with.
func (NoopSealer) Open(value string) (string, error) {
	if strings.HasPrefix(value, SealedPrefix) {
		return "", ErrOpenFailed
	}
	return value, nil
}
