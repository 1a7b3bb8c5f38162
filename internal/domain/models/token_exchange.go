// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ErrorKind classifies a failed token exchange.
type ErrorKind string

const (
	// ErrorKindConfiguration means required credential fields are missing; no request was sent.
	ErrorKindConfiguration ErrorKind = "configuration"
	// ErrorKindUpstreamAuth means Zoom answered the exchange with a non-2xx status.
	ErrorKindUpstreamAuth ErrorKind = "upstream_auth"
	// ErrorKindTransport covers network failures and malformed token responses.
	ErrorKindTransport ErrorKind = "transport"
	// ErrorKindCancelled means the caller's context ended before the exchange completed.
	ErrorKindCancelled ErrorKind = "cancelled"
	// ErrorKindCredentialLookup means the credential store could not be read.
	ErrorKindCredentialLookup ErrorKind = "credential_lookup"
)

// OutcomeSuccess is the outcome label of a successful exchange.
const OutcomeSuccess = "success"

// TokenExchangeResult is the outcome of a single account-credentials exchange.
// It is built fresh for every call and never stored.
type TokenExchangeResult struct {
	Success bool

	AccessToken string
	TokenType   string
	ExpiresIn   int

	ErrorKind     ErrorKind
	ErrorMessage  string
	Details       []byte
	MissingFields []string
	StatusCode    int
}

// NewTokenExchangeSuccess builds a successful result carrying Zoom's values verbatim.
func NewTokenExchangeSuccess(accessToken, tokenType string, expiresIn int) TokenExchangeResult {
	return TokenExchangeResult{
		Success:     true,
		AccessToken: accessToken,
		TokenType:   tokenType,
		ExpiresIn:   expiresIn,
	}
}

// NewConfigurationFailure builds the result for a tenant missing credential fields.
func NewConfigurationFailure(missing []string) TokenExchangeResult {
	return TokenExchangeResult{
		ErrorKind:     ErrorKindConfiguration,
		ErrorMessage:  fmt.Sprintf("missing required Zoom credentials: %s", strings.Join(missing, ", ")),
		MissingFields: missing,
	}
}

// NewTokenExchangeFailure builds a failed result of the given kind.
func NewTokenExchangeFailure(kind ErrorKind, message string, details []byte, statusCode int) TokenExchangeResult {
	return TokenExchangeResult{
		ErrorKind:    kind,
		ErrorMessage: message,
		Details:      details,
		StatusCode:   statusCode,
	}
}

// Outcome returns "success" or the error kind, used as a metric and event label.
func (r TokenExchangeResult) Outcome() string {
	if r.Success {
		return OutcomeSuccess
	}
	return string(r.ErrorKind)
}

// TokenInfo mirrors the token metadata fields of Zoom's token response.
type TokenInfo struct {
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

// TokenExchangeResponse is the JSON shape returned to HTTP and NATS callers.
type TokenExchangeResponse struct {
	Success       bool            `json:"success"`
	AccessToken   string          `json:"accessToken,omitempty"`
	TokenInfo     *TokenInfo      `json:"tokenInfo,omitempty"`
	Error         string          `json:"error,omitempty"`
	ErrorKind     ErrorKind       `json:"errorKind,omitempty"`
	Details       json.RawMessage `json:"details,omitempty"`
	MissingFields []string        `json:"missingFields,omitempty"`
}

// Response converts the result into its wire representation. The upstream body
// is embedded as-is when it is JSON and as a string otherwise.
func (r TokenExchangeResult) Response() TokenExchangeResponse {
	if r.Success {
		return TokenExchangeResponse{
			Success:     true,
			AccessToken: r.AccessToken,
			TokenInfo: &TokenInfo{
				TokenType: r.TokenType,
				ExpiresIn: r.ExpiresIn,
			},
		}
	}

	return TokenExchangeResponse{
		Error:         r.ErrorMessage,
		ErrorKind:     r.ErrorKind,
		Details:       rawDetails(r.Details),
		MissingFields: r.MissingFields,
	}
}

// Redacted returns a copy of the result without the access token.
func (r TokenExchangeResult) Redacted() TokenExchangeResult {
	if r.AccessToken != "" {
		r.AccessToken = "[REDACTED]"
	}
	return r
}

func rawDetails(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, err := json.Marshal(string(body))
	if err != nil {
		return nil
	}
	return quoted
}
