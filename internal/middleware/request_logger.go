// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/pkg/constants"
)

// RequestLoggerMiddleware logs each request and its outcome.
// /livez and /readyz are only logged when they fail. The Authorization
// header is never logged. When the router matched a tenant_id route
// parameter, the response record carries the tenant id.
func RequestLoggerMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now().UTC()
			quiet := r.URL.Path == "/livez" || r.URL.Path == "/readyz"

			ctx := r.Context()
			ctx = logging.AppendCtx(ctx, slog.String("method", r.Method))
			ctx = logging.AppendCtx(ctx, slog.String("path", r.URL.Path))
			ctx = logging.AppendCtx(ctx, slog.String("query", r.URL.RawQuery))
			ctx = logging.AppendCtx(ctx, slog.String("remote_addr", r.RemoteAddr))
			ctx = logging.AppendCtx(ctx, slog.String("user_agent", r.UserAgent()))
			if onBehalfOf := r.Header.Get(constants.XOnBehalfOfHeader); onBehalfOf != "" {
				ctx = logging.AppendCtx(ctx, slog.String("on_behalf_of", onBehalfOf))
			}

			if !quiet {
				slog.DebugContext(ctx, "HTTP request")
			}

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r.WithContext(ctx))

			// chi fills the shared route context while routing, so the
			// tenant is only known once the handler has run.
			attrs := []any{
				"status", sw.status,
				"bytes", sw.bytes,
				"duration", time.Since(start).String(),
			}
			if tenantID := chi.URLParam(r, logging.TenantIDKey); tenantID != "" {
				attrs = append(attrs, logging.TenantIDKey, tenantID)
			}

			switch {
			case sw.status >= http.StatusInternalServerError:
				slog.WarnContext(ctx, "HTTP request failed", attrs...)
			case !quiet:
				slog.InfoContext(ctx, "HTTP response", attrs...)
			}
		})
	}
}

// statusWriter records the status code and body size written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}
