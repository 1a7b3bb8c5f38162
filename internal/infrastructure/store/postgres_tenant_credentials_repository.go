// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/secrets"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
)

// PgExecutor is the subset of *pgxpool.Pool used by the Postgres repository.
type PgExecutor interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

var _ PgExecutor = (*pgxpool.Pool)(nil)

const (
	createTenantCredentialsTable = `
		CREATE TABLE IF NOT EXISTS tenant_zoom_credentials (
			tenant_id          TEXT PRIMARY KEY,
			zoom_account_id    TEXT,
			zoom_client_id     TEXT,
			zoom_client_secret TEXT,
			updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
		)`

	selectTenantCredentials = `
		SELECT COALESCE(zoom_account_id, ''), COALESCE(zoom_client_id, ''), COALESCE(zoom_client_secret, ''), updated_at
		FROM tenant_zoom_credentials
		WHERE tenant_id = $1`

	upsertTenantCredentials = `
		INSERT INTO tenant_zoom_credentials (tenant_id, zoom_account_id, zoom_client_id, zoom_client_secret, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id) DO UPDATE SET
			zoom_account_id    = EXCLUDED.zoom_account_id,
			zoom_client_id     = EXCLUDED.zoom_client_id,
			zoom_client_secret = EXCLUDED.zoom_client_secret,
			updated_at         = EXCLUDED.updated_at`

	deleteTenantCredentials = `DELETE FROM tenant_zoom_credentials WHERE tenant_id = $1`
)

// NewPgxPool opens and verifies a connection pool.
func NewPgxPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}
	if maxConns > 0 {
		poolCfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}
	return pool, nil
}

// PostgresTenantCredentialsRepository stores tenant credentials in the tenant_zoom_credentials table.
type PostgresTenantCredentialsRepository struct {
	db     PgExecutor
	sealer secrets.Sealer
	now    func() time.Time
}

var _ domain.TenantCredentialsRepository = (*PostgresTenantCredentialsRepository)(nil)

// NewPostgresTenantCredentialsRepository creates a repository over db. A nil sealer stores secrets as given.
func NewPostgresTenantCredentialsRepository(db PgExecutor, sealer secrets.Sealer) *PostgresTenantCredentialsRepository {
	if sealer == nil {
		sealer = secrets.NoopSealer{}
	}
	return &PostgresTenantCredentialsRepository{db: db, sealer: sealer, now: time.Now}
}

// EnsureSchema creates the credentials table when it does not exist.
func (r *PostgresTenantCredentialsRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createTenantCredentialsTable); err != nil {
		return fmt.Errorf("pg: create tenant_zoom_credentials: %w", err)
	}
	return nil
}

func startPgSpan(ctx context.Context, operation, tenantID string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, "postgres."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
			attribute.String("db.sql.table", "tenant_zoom_credentials"),
			attribute.String(logging.TenantIDKey, tenantID),
		),
	)
}

// GetCredentials returns the tenant's row, or a not-found error when there is none.
func (r *PostgresTenantCredentialsRepository) GetCredentials(ctx context.Context, tenantID string) (*models.TenantCredentials, error) {
	ctx, span := startPgSpan(ctx, "select", tenantID)
	defer span.End()

	creds := &models.TenantCredentials{TenantID: tenantID}
	var updatedAt time.Time
	err := r.db.QueryRow(ctx, selectTenantCredentials, tenantID).Scan(
		&creds.ZoomAccountID, &creds.ZoomClientID, &creds.ZoomClientSecret, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		err = domain.NewNotFoundError("tenant credentials not found", err)
		recordSpanError(span, err, "not found")
		return nil, err
	}
	if err != nil {
		slog.ErrorContext(ctx, "error selecting tenant credentials", logging.ErrKey, err)
		err = domain.NewInternalError("failed to retrieve tenant credentials from store", err)
		recordSpanError(span, err, err.Error())
		return nil, err
	}

	if err := openCredentials(r.sealer, creds); err != nil {
		recordSpanError(span, err, err.Error())
		return nil, err
	}
	if !updatedAt.IsZero() {
		creds.UpdatedAt = &updatedAt
	}

	span.SetStatus(codes.Ok, "")
	return creds, nil
}

// PutCredentials inserts or replaces the tenant's row.
func (r *PostgresTenantCredentialsRepository) PutCredentials(ctx context.Context, creds *models.TenantCredentials) error {
	if creds == nil || creds.TenantID == "" {
		return domain.NewValidationError("tenant id is required")
	}

	ctx, span := startPgSpan(ctx, "upsert", creds.TenantID)
	defer span.End()

	sealed, err := sealCredentials(r.sealer, creds)
	if err != nil {
		recordSpanError(span, err, err.Error())
		return err
	}
	now := r.now().UTC()

	_, err = r.db.Exec(ctx, upsertTenantCredentials,
		sealed.TenantID,
		nullIfEmpty(sealed.ZoomAccountID),
		nullIfEmpty(sealed.ZoomClientID),
		nullIfEmpty(sealed.ZoomClientSecret),
		now,
	)
	if err != nil {
		slog.ErrorContext(ctx, "error upserting tenant credentials", logging.ErrKey, err)
		err = domain.NewInternalError("failed to store tenant credentials", err)
		recordSpanError(span, err, err.Error())
		return err
	}

	creds.UpdatedAt = &now
	span.SetStatus(codes.Ok, "")
	return nil
}

// DeleteCredentials removes the tenant's row.
func (r *PostgresTenantCredentialsRepository) DeleteCredentials(ctx context.Context, tenantID string) error {
	ctx, span := startPgSpan(ctx, "delete", tenantID)
	defer span.End()

	tag, err := r.db.Exec(ctx, deleteTenantCredentials, tenantID)
	if err != nil {
		slog.ErrorContext(ctx, "error deleting tenant credentials", logging.ErrKey, err)
		err = domain.NewInternalError("failed to delete tenant credentials from store", err)
		recordSpanError(span, err, err.Error())
		return err
	}
	if tag.RowsAffected() == 0 {
		err = domain.NewNotFoundError("tenant credentials not found")
		recordSpanError(span, err, "not found")
		return err
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Ping checks the database connection.
func (r *PostgresTenantCredentialsRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return domain.NewUnavailableError("tenant credentials database is not reachable", err)
	}
	return nil
}

// nullIfEmpty stores blank fields as NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
