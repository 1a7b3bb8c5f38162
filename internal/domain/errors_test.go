// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetErrorType(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{"validation", NewValidationError("bad input"), ErrorTypeValidation},
		{"not found", NewNotFoundError("missing"), ErrorTypeNotFound},
		{"conflict", NewConflictError("modified"), ErrorTypeConflict},
		{"internal", NewInternalError("boom"), ErrorTypeInternal},
		{"unavailable", NewUnavailableError("down"), ErrorTypeUnavailable},
		{"unauthorized", NewUnauthorizedError("no token"), ErrorTypeUnauthorized},
		{"wrapped domain error", fmt.Errorf("outer: %w", NewNotFoundError("inner")), ErrorTypeNotFound},
		{"plain error falls back to internal", errors.New("plain"), ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetErrorType(tt.err))
		})
	}
}

func TestDomainError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("key not found")

	err := NewNotFoundError("tenant credentials not found", cause)
	assert.Equal(t, "tenant credentials not found: key not found", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewValidationError("tenant id is required")
	assert.Equal(t, "tenant id is required", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("missing")))
	assert.False(t, IsNotFound(NewInternalError("boom")))
	assert.False(t, IsNotFound(nil))
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "validation", ErrorTypeValidation.String())
	assert.Equal(t, "not_found", ErrorTypeNotFound.String())
	assert.Equal(t, "unauthorized", ErrorTypeUnauthorized.String())
	assert.Equal(t, "internal", ErrorType(99).String())
}
