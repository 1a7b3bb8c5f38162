// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/handlers"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/middleware"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/service"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/pkg/utils"
)

const (
	gracefulShutdownSeconds = 25
	// natsQueueGroup load balances token exchange requests across replicas.
	natsQueueGroup = "lfx.zoom-tenant-service.queue"
)

func newServeCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and NATS token exchange responder",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := parseEnv()
			if err != nil {
				return err
			}
			if f.Port == "" {
				f.Port = e.Port
			}
			return runServe(e, f)
		},
	}
	cmd.Flags().StringVarP(&f.Port, "port", "p", "", "listen port (default $PORT or 8080)")
	cmd.Flags().StringVar(&f.Bind, "bind", "*", "interface to bind on")

	return cmd
}

func runServe(e environment, f flags) error {
	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	gracefulCloseWG := sync.WaitGroup{}

	otelShutdown, err := utils.SetupOTelSDK(ctx)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up OpenTelemetry")
		return err
	}

	// Set up JWT validator needed by the admin routes.
	jwtAuth, err := setupJWTAuth(e)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up JWT authentication")
		return err
	}

	var natsConn *nats.Conn
	if url := e.natsURL(); url != "" {
		natsConn, err = setupNATS(url, &gracefulCloseWG, done)
		if err != nil {
			slog.With(logging.ErrKey, err).Error("error setting up NATS")
			return err
		}
	}

	repo, closeRepo, err := setupRepository(ctx, e, natsConn)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error setting up credential store")
		return err
	}
	defer closeRepo()

	var messageBuilder *messaging.MessageBuilder
	if natsConn != nil {
		messageBuilder = messaging.NewMessageBuilder(natsConn)
	}
	svcs := newServices(e, repo, messageBuilder)

	checks := []readinessCheck{{name: "credential_store", check: repo.Ping}}
	if natsConn != nil {
		checks = append(checks, readinessCheck{name: "nats", check: func(context.Context) error {
			if !natsConn.IsConnected() {
				return messaging.ErrNotConnected
			}
			return nil
		}})
	}

	zoomAPI := NewZoomTenantAPI(svcs.exchanges, svcs.configs, svcs.recordings, checks...)
	handler := newRouter(zoomAPI, routerConfig{
		Authenticator:      service.NewAuthService(jwtAuth),
		TokenLimiter:       tokenLimiter(e),
		Metrics:            svcs.metrics,
		Gatherer:           svcs.registry,
		CORSAllowedOrigins: e.CORSAllowedOrigins,
	})
	httpServer := setupHTTPServer(f, handler, &gracefulCloseWG)

	// Create NATS subscriptions for the service.
	if natsConn != nil {
		tokenHandler := handlers.NewZoomTokenHandler(svcs.exchanges)
		if err := createNatsSubscriptions(ctx, natsConn, tokenHandler); err != nil {
			slog.With(logging.ErrKey, err).Error("error creating NATS subscriptions")
			return err
		}
	}

	// This next line blocks until SIGINT or SIGTERM is received.
	<-done

	gracefulShutdown(httpServer, natsConn, &gracefulCloseWG, cancel)

	if err := otelShutdown(context.Background()); err != nil {
		slog.With(logging.ErrKey, err).Warn("error shutting down OpenTelemetry")
	}
	return nil
}

// tokenLimiter returns the per-tenant limiter for the token route, or nil when disabled.
func tokenLimiter(e environment) *middleware.KeyedRateLimiter {
	if e.TokenRateLimit == 0 {
		return nil
	}
	return middleware.NewKeyedRateLimiter(e.TokenRateLimit, e.TokenRateBurst)
}

// createNatsSubscriptions subscribes the message handler to the service's request subjects.
func createNatsSubscriptions(ctx context.Context, natsConn *nats.Conn, handler domain.MessageHandler) error {
	if !handler.HandlerReady() {
		return errors.New("message handler is not ready")
	}

	for _, subject := range []string{models.TokenExchangeSubject} {
		_, err := natsConn.QueueSubscribe(subject, natsQueueGroup, func(msg *nats.Msg) {
			handler.HandleMessage(ctx, messaging.NewNatsMessage(msg))
		})
		if err != nil {
			return fmt.Errorf("error subscribing to %s: %w", subject, err)
		}
		slog.With("subject", subject, "queue", natsQueueGroup).Info("subscribed to NATS subject")
	}
	return nil
}

// gracefulShutdown stops the HTTP server, drains NATS and waits for both to finish.
func gracefulShutdown(httpServer *http.Server, natsConn *nats.Conn, gracefulCloseWG *sync.WaitGroup, cancel context.CancelFunc) {
	slog.Info("graceful shutdown start")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), gracefulShutdownSeconds*time.Second)
	defer cancelShutdown()

	go func() {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.With(logging.ErrKey, err).Error("http shutdown error")
		}
		// Decrement the wait group once the server has finished shutting down.
		gracefulCloseWG.Done()
	}()

	// Drain the NATS connection, which will also close it and decrement the wait group.
	if natsConn != nil && !natsConn.IsClosed() && !natsConn.IsDraining() {
		slog.Info("draining NATS connections")
		if err := natsConn.Drain(); err != nil {
			slog.With(logging.ErrKey, err).Error("error draining NATS connection")
		}
	}

	// Cancel the background context.
	cancel()

	// Wait for the HTTP server and NATS connection to close, or time out.
	waited := make(chan struct{})
	go func() {
		gracefulCloseWG.Wait()
		close(waited)
	}()
	select {
	case <-waited:
		slog.Info("graceful shutdown complete")
	case <-shutdownCtx.Done():
		slog.Warn("graceful shutdown timed out")
	}
}
