// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/metrics"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/pkg/constants"
)

// routerConfig holds the cross-cutting pieces the HTTP router is built from.
type routerConfig struct {
	Authenticator      middleware.Authenticator
	TokenLimiter       *middleware.KeyedRateLimiter
	Metrics            *metrics.TokenExchangeMetrics
	Gatherer           prometheus.Gatherer
	CORSAllowedOrigins []string
}

func isHealthCheck(r *http.Request) bool {
	return r.URL.Path == "/livez" || r.URL.Path == "/readyz"
}

// newRouter builds the HTTP handler for the service.
func newRouter(s *ZoomTenantAPI, cfg routerConfig) http.Handler {
	r := chi.NewRouter()

	// RequestIDMiddleware runs first so every log line of the request carries the id.
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RequestLoggerMiddleware())
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", constants.RequestIDHeader},
			ExposedHeaders:   []string{constants.RequestIDHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.Get("/livez", s.Livez)
	r.Get("/readyz", s.Readyz)
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/tenants", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.Authenticator))

		r.Post("/zoom/verify", s.VerifyConnections)

		r.Route("/{"+tenantIDParam+"}/zoom", func(r chi.Router) {
			tokenRoute := r.With()
			if cfg.TokenLimiter != nil {
				var onLimited func()
				if cfg.Metrics != nil {
					onLimited = cfg.Metrics.RateLimitedTotal.Inc
				}
				tokenRoute = r.With(middleware.RateLimitMiddleware(cfg.TokenLimiter, func(r *http.Request) string {
					return chi.URLParam(r, tenantIDParam)
				}, onLimited))
			}
			tokenRoute.Post("/token", s.ExchangeToken)

			r.Get("/status", s.GetZoomStatus)
			r.Put("/config", s.PutZoomConfig)
			r.Delete("/config", s.DeleteZoomConfig)
			r.Get("/recordings", s.ListRecordings)
		})
	})

	return otelhttp.NewHandler(r, "zoom-tenant-api",
		otelhttp.WithFilter(func(r *http.Request) bool { return !isHealthCheck(r) }),
	)
}

// setupHTTPServer configures and starts the HTTP server
func setupHTTPServer(flags flags, handler http.Handler, gracefulCloseWG *sync.WaitGroup) *http.Server {
	// Set up http listener in a goroutine using provided command line parameters.
	var addr string
	if flags.Bind == "*" {
		addr = ":" + flags.Port
	} else {
		addr = flags.Bind + ":" + flags.Port
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}
	gracefulCloseWG.Add(1)
	go func() {
		slog.With("addr", addr).Debug("starting http server, listening on port " + flags.Port)
		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			slog.With(logging.ErrKey, err).Error("http listener error")
			os.Exit(1)
		}
		// Because ErrServerClosed is *immediately* returned when Shutdown is
		// called, not when when Shutdown completes, this must not yet decrement
		// the wait group.
	}()

	return httpServer
}
