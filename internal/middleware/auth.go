// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/pkg/constants"
)

// Authenticator resolves the principal behind an Authorization header.
type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (string, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores the
// principal in the request context.
func AuthMiddleware(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			principal, err := authenticator.Authenticate(ctx, r.Header.Get(constants.AuthorizationHeader))
			if err != nil {
				status := http.StatusUnauthorized
				if domain.GetErrorType(err) == domain.ErrorTypeUnavailable {
					status = http.StatusServiceUnavailable
				}
				slog.WarnContext(ctx, "request not authenticated", logging.ErrKey, err)
				writeJSONError(w, status, "unauthorized")
				return
			}

			ctx = context.WithValue(ctx, constants.PrincipalContextID, principal)
			ctx = logging.AppendCtx(ctx, slog.String("principal", principal))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext returns the principal stored by AuthMiddleware.
func PrincipalFromContext(ctx context.Context) string {
	p, _ := ctx.Value(constants.PrincipalContextID).(string)
	return p
}

type errorBody struct {
	Message string `json:"message"`
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", constants.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Message: message})
}
