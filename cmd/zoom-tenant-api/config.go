// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/pkg/utils"
)

// Credential store backends selectable with STORE_BACKEND.
const (
	storeBackendNATS     = "nats"
	storeBackendPostgres = "postgres"
	storeBackendMemory   = "memory"
)

// flags are the command line flags for the zoom tenant service.
type flags struct {
	Debug bool
	Port  string
	Bind  string
}

// environment are the environment variables for the zoom tenant service.
type environment struct {
	Port string `env:"PORT" envDefault:"8080"`

	StoreBackend     string `env:"STORE_BACKEND" envDefault:"nats"`
	NatsURL          string `env:"NATS_URL"`
	NatsKeyPrefix    string `env:"NATS_KEY_PREFIX"`
	PostgresDSN      string `env:"POSTGRES_DSN"`
	PostgresMaxConns int32  `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	TenantSeedFile   string `env:"TENANT_SEED_FILE"`
	SecretBoxKey     string `env:"SECRETBOX_KEY"`

	ZoomTokenURL     string        `env:"ZOOM_TOKEN_URL"`
	ZoomTokenTimeout time.Duration `env:"ZOOM_TOKEN_TIMEOUT" envDefault:"10s"`
	ZoomAPIBaseURL   string        `env:"ZOOM_API_BASE_URL"`

	TokenRateLimit    float64 `env:"TOKEN_RATE_LIMIT" envDefault:"5"`
	TokenRateBurst    int     `env:"TOKEN_RATE_BURST" envDefault:"10"`
	VerifyConcurrency int     `env:"VERIFY_CONCURRENCY" envDefault:"5"`
	PublishEvents     bool    `env:"PUBLISH_EVENTS" envDefault:"true"`

	JWKSURL            string   `env:"JWKS_URL"`
	JWTAudience        string   `env:"JWT_AUDIENCE"`
	JWTMockPrincipal   string   `env:"JWT_AUTH_DISABLED_MOCK_LOCAL_PRINCIPAL"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// validate checks the settings that depend on each other.
func (e environment) validate() error {
	switch e.StoreBackend {
	case storeBackendNATS, storeBackendMemory:
	case storeBackendPostgres:
		if e.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required when STORE_BACKEND is postgres")
		}
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q", e.StoreBackend)
	}
	if e.ZoomTokenTimeout <= 0 {
		return errors.New("ZOOM_TOKEN_TIMEOUT must be positive")
	}
	if e.TokenRateLimit < 0 {
		return errors.New("TOKEN_RATE_LIMIT must not be negative")
	}
	return nil
}

// natsURL returns the NATS server to connect to. The NATS backend always
// connects; other backends only connect when NATS_URL is set.
func (e environment) natsURL() string {
	if e.StoreBackend == storeBackendNATS {
		return utils.CoalesceString(e.NatsURL, "nats://localhost:4222")
	}
	return e.NatsURL
}

// loadDotEnv loads a .env file from the working directory when present.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.With(logging.ErrKey, err).Warn("error loading .env file")
	}
}

// parseEnv parses environment variables for the zoom tenant service
func parseEnv() (environment, error) {
	var e environment
	if err := env.Parse(&e); err != nil {
		return environment{}, fmt.Errorf("error parsing environment: %w", err)
	}
	if err := e.validate(); err != nil {
		return environment{}, err
	}
	return e, nil
}

// applyDebug sets the log level environment variable used by [logging.InitStructureLogConfig].
func applyDebug(debug bool) {
	if !debug {
		return
	}
	if err := os.Setenv("LOG_LEVEL", "debug"); err != nil {
		slog.With(logging.ErrKey, err).Error("error setting log level")
		os.Exit(1)
	}
}
