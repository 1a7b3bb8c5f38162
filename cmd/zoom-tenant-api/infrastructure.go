// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/auth"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/secrets"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/store"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
)

const (
	natsConnectionName = "lfx-v2-zoom-tenant-service"
	natsReconnectWait  = 2 * time.Second
	natsMaxReconnects  = -1
	natsDrainTimeout   = 10 * time.Second
)

// setupJWTAuth configures JWT authentication for the service
func setupJWTAuth(e environment) (*auth.JWTAuth, error) {
	jwtAuthConfig := auth.JWTAuthConfig{
		JWKSURL:            e.JWKSURL,
		Audience:           e.JWTAudience,
		MockLocalPrincipal: e.JWTMockPrincipal,
	}
	return auth.NewJWTAuth(jwtAuthConfig)
}

// setupNATS connects to NATS. The wait group is released when the connection
// closes, and an unexpected close signals done so the service shuts down.
func setupNATS(url string, gracefulCloseWG *sync.WaitGroup, done chan os.Signal) (*nats.Conn, error) {
	slog.With("nats_url", url).Info("connecting to NATS")

	gracefulCloseWG.Add(1)
	conn, err := nats.Connect(
		url,
		nats.Name(natsConnectionName),
		nats.DrainTimeout(natsDrainTimeout),
		nats.MaxReconnects(natsMaxReconnects),
		nats.ReconnectWait(natsReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.With(logging.ErrKey, err).Warn("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.With("nats_url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, s *nats.Subscription, err error) {
			if s != nil {
				slog.With(logging.ErrKey, err, "subject", s.Subject, "queue", s.Queue).Error("async NATS error")
			} else {
				slog.With(logging.ErrKey, err).Error("async NATS error outside subscription")
			}
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			select {
			case <-done:
				// This channel has already been closed or a signal has been sent.
			default:
				slog.Warn("NATS connection closed, shutting down")
				select {
				case done <- os.Interrupt:
				default:
				}
			}
			gracefulCloseWG.Done()
		}),
	)
	if err != nil {
		gracefulCloseWG.Done()
		return nil, fmt.Errorf("error connecting to NATS: %w", err)
	}

	return conn, nil
}

// setupRepository builds the credential store selected by STORE_BACKEND.
// The returned cleanup function releases backend resources.
func setupRepository(ctx context.Context, e environment, natsConn *nats.Conn) (domain.TenantCredentialsRepository, func(), error) {
	sealer, err := secrets.NewSealer(e.SecretBoxKey)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid SECRETBOX_KEY: %w", err)
	}
	if _, sealing := sealer.(*secrets.SecretBox); !sealing && e.StoreBackend != storeBackendMemory {
		slog.Warn("SECRETBOX_KEY is not set, client secrets are stored unencrypted")
	}

	switch e.StoreBackend {
	case storeBackendNATS:
		if natsConn == nil {
			return nil, nil, fmt.Errorf("the NATS backend requires a NATS connection")
		}
		js, err := jetstream.New(natsConn)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating JetStream context: %w", err)
		}
		stores, err := store.CreateKeyValueStores(ctx, js)
		if err != nil {
			return nil, nil, fmt.Errorf("error opening key-value stores: %w", err)
		}
		repo := store.NewNatsTenantCredentialsRepository(
			stores[store.KVStoreNameTenantZoomCredentials],
			store.NewKeyBuilder(e.NatsKeyPrefix),
			sealer,
		)
		return repo, func() {}, nil

	case storeBackendPostgres:
		pool, err := store.NewPgxPool(ctx, e.PostgresDSN, e.PostgresMaxConns)
		if err != nil {
			return nil, nil, err
		}
		repo := store.NewPostgresTenantCredentialsRepository(pool, sealer)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil

	case storeBackendMemory:
		repo := store.NewMemoryTenantCredentialsRepository()
		if e.TenantSeedFile != "" {
			n, err := repo.LoadSeedFile(ctx, e.TenantSeedFile)
			if err != nil {
				return nil, nil, err
			}
			slog.With("tenants", n, "file", e.TenantSeedFile).Info("loaded tenant seed file")
		}
		return repo, func() {}, nil
	}

	return nil, nil, fmt.Errorf("unsupported STORE_BACKEND %q", e.StoreBackend)
}
