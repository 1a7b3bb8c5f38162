// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/pkg/concurrent"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/pkg/constants"
)

const (
	readinessTimeout = 2 * time.Second
	maxRequestBody   = 64 << 10
)

// readinessCheck is a named dependency probe used by /readyz.
type readinessCheck struct {
	name  string
	check func(ctx context.Context) error
}

// ZoomTenantAPI serves the HTTP endpoints of the zoom tenant service.
type ZoomTenantAPI struct {
	exchanges  *service.TokenExchangeService
	configs    *service.ZoomConfigService
	recordings *service.RecordingService
	checks     []readinessCheck
	pool       *concurrent.WorkerPool
}

// NewZoomTenantAPI creates a new ZoomTenantAPI.
func NewZoomTenantAPI(
	exchanges *service.TokenExchangeService,
	configs *service.ZoomConfigService,
	recordings *service.RecordingService,
	checks ...readinessCheck,
) *ZoomTenantAPI {
	return &ZoomTenantAPI{
		exchanges:  exchanges,
		configs:    configs,
		recordings: recordings,
		checks:     checks,
		pool:       concurrent.NewWorkerPool(len(checks)),
	}
}

// errorResponse is the body of every non-2xx response outside the token endpoint.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusForError maps a domain error onto an HTTP status code.
func statusForError(err error) int {
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		return http.StatusBadRequest
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	case domain.ErrorTypeConflict:
		return http.StatusConflict
	case domain.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	case domain.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", constants.ContentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(ctx, "error writing response", logging.ErrKey, err)
	}
}

// writeError writes err as an errorResponse. Internal details are not exposed.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}
	var domainErr *domain.DomainError
	if status == http.StatusServiceUnavailable && errors.As(err, &domainErr) {
		message = domainErr.Message
	}
	writeJSON(ctx, w, status, errorResponse{Code: strconv.Itoa(status), Message: message})
}

// decodeJSON reads a bounded JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.NewValidationError("invalid request body", err)
	}
	return nil
}

// Readyz checks if the service is able to take inbound requests.
func (s *ZoomTenantAPI) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if s.exchanges == nil || s.configs == nil || !s.exchanges.ServiceReady() || !s.configs.ServiceReady() {
		writeError(ctx, w, domain.ErrServiceUnavailable)
		return
	}

	probes := make([]func() error, 0, len(s.checks))
	for _, c := range s.checks {
		probes = append(probes, func() error {
			if err := c.check(ctx); err != nil {
				return fmt.Errorf("%s: %w", c.name, err)
			}
			return nil
		})
	}

	if errs := s.pool.RunAll(ctx, probes...); len(errs) > 0 {
		slog.WarnContext(ctx, "readiness check failed", logging.ErrKey, errors.Join(errs...))
		writeError(ctx, w, domain.ErrServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK\n"))
}

// Livez checks if the service is alive.
func (s *ZoomTenantAPI) Livez(w http.ResponseWriter, _ *http.Request) {
	// This always returns as long as the service is still running. As this
	// endpoint is expected to be used as a Kubernetes liveness check, this
	// service must likewise self-detect non-recoverable errors and
	// self-terminate.
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK\n"))
}
