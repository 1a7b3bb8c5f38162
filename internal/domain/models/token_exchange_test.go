// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigurationFailure(t *testing.T) {
	result := NewConfigurationFailure([]string{FieldZoomAccountID, FieldZoomClientSecret})

	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindConfiguration, result.ErrorKind)
	assert.Equal(t, "missing required Zoom credentials: zoom_account_id, zoom_client_secret", result.ErrorMessage)
	assert.Equal(t, "configuration", result.Outcome())
}

func TestTokenExchangeResult_ResponseSuccess(t *testing.T) {
	result := NewTokenExchangeSuccess("tok123", "bearer", 3600)

	data, err := json.Marshal(result.Response())
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"success": true,
		"accessToken": "tok123",
		"tokenInfo": {"token_type": "bearer", "expires_in": 3600}
	}`, string(data))
	assert.Equal(t, OutcomeSuccess, result.Outcome())
}

func TestTokenExchangeResult_ResponseFailure(t *testing.T) {
	tests := []struct {
		name     string
		result   TokenExchangeResult
		expected string
	}{
		{
			name: "JSON details are embedded verbatim",
			result: NewTokenExchangeFailure(ErrorKindUpstreamAuth, "Invalid account_id",
				[]byte(`{"error":"invalid_request","error_description":"Invalid account_id"}`), 400),
			expected: `{
				"success": false,
				"error": "Invalid account_id",
				"errorKind": "upstream_auth",
				"details": {"error":"invalid_request","error_description":"Invalid account_id"}
			}`,
		},
		{
			name: "non JSON details become a string",
			result: NewTokenExchangeFailure(ErrorKindUpstreamAuth, "token request failed with status code 502",
				[]byte("<html>Bad Gateway</html>"), 502),
			expected: `{
				"success": false,
				"error": "token request failed with status code 502",
				"errorKind": "upstream_auth",
				"details": "<html>Bad Gateway</html>"
			}`,
		},
		{
			name:   "missing fields are listed",
			result: NewConfigurationFailure([]string{FieldZoomClientID}),
			expected: `{
				"success": false,
				"error": "missing required Zoom credentials: zoom_client_id",
				"errorKind": "configuration",
				"missingFields": ["zoom_client_id"]
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.result.Response())
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestTokenExchangeResult_Redacted(t *testing.T) {
	result := NewTokenExchangeSuccess("tok123", "bearer", 3600)

	redacted := result.Redacted()

	assert.Equal(t, "[REDACTED]", redacted.AccessToken)
	assert.Equal(t, "tok123", result.AccessToken)
	assert.Equal(t, "", NewConfigurationFailure(nil).Redacted().AccessToken)
}

func TestNewConnectionCheck(t *testing.T) {
	check := NewConnectionCheck("acme", NewTokenExchangeSuccess("tok123", "bearer", 3599))

	assert.True(t, check.Success)
	assert.Equal(t, 3599, check.ExpiresIn)

	data, err := json.Marshal(check)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "tok123")
}
