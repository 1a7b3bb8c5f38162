// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/messaging"
)

// errExchangeFailed makes the command exit non-zero after printing a failed result.
var errExchangeFailed = errors.New("token exchange failed")

type exchangeOptions struct {
	TenantID  string
	ShowToken bool
	ViaNATS   bool
	Timeout   time.Duration
}

func newExchangeCmd() *cobra.Command {
	var opts exchangeOptions

	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Exchange a tenant's Zoom credentials for an access token and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(opts.TenantID) == "" {
				return errors.New("--tenant is required")
			}
			e, err := parseEnv()
			if err != nil {
				return err
			}
			return runExchange(cmd.Context(), e, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.TenantID, "tenant", "", "tenant identifier")
	cmd.Flags().BoolVar(&opts.ShowToken, "show-token", false, "print the access token instead of redacting it")
	cmd.Flags().BoolVar(&opts.ViaNATS, "via-nats", false, "ask a running service over NATS instead of exchanging locally")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 15*time.Second, "overall time limit")

	return cmd
}

func runExchange(ctx context.Context, e environment, opts exchangeOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	var resp models.TokenExchangeResponse
	if opts.ViaNATS {
		r, err := exchangeViaNATS(ctx, e, opts)
		if err != nil {
			return err
		}
		resp = *r
		if !opts.ShowToken && resp.AccessToken != "" {
			resp.AccessToken = "[REDACTED]"
		}
	} else {
		var conn *nats.Conn
		if url := e.natsURL(); url != "" {
			c, err := nats.Connect(url, nats.Name(natsConnectionName+"-cli"))
			if err != nil {
				return fmt.Errorf("error connecting to NATS: %w", err)
			}
			defer c.Close()
			conn = c
		}
		repo, closeRepo, err := setupRepository(ctx, e, conn)
		if err != nil {
			return err
		}
		defer closeRepo()

		result := newServices(e, repo, nil).exchanges.ExchangeToken(ctx, opts.TenantID)
		if !opts.ShowToken {
			result = result.Redacted()
		}
		resp = result.Response()
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return err
	}
	if !resp.Success {
		return errExchangeFailed
	}
	return nil
}

func exchangeViaNATS(ctx context.Context, e environment, opts exchangeOptions) (*models.TokenExchangeResponse, error) {
	url := e.NatsURL
	if url == "" {
		url = nats.DefaultURL
	}
	conn, err := nats.Connect(url, nats.Name(natsConnectionName+"-cli"))
	if err != nil {
		return nil, fmt.Errorf("error connecting to NATS: %w", err)
	}
	defer conn.Close()

	timeout := opts.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	return messaging.NewMessageBuilder(conn).RequestTokenExchange(ctx, opts.TenantID, timeout)
}
