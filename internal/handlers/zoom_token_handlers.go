// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain/models"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/service"
)

// ZoomTokenHandler answers token exchange requests from other services over NATS.
type ZoomTokenHandler struct {
	exchangeService *service.TokenExchangeService
}

var _ domain.MessageHandler = (*ZoomTokenHandler)(nil)

func NewZoomTokenHandler(exchangeService *service.TokenExchangeService) *ZoomTokenHandler {
	return &ZoomTokenHandler{
		exchangeService: exchangeService,
	}
}

func (h *ZoomTokenHandler) HandlerReady() bool {
	return h.exchangeService != nil && h.exchangeService.ServiceReady()
}

// HandleMessage implements domain.MessageHandler interface
func (h *ZoomTokenHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling NATS message")

	handlers := map[string]func(ctx context.Context, msg domain.Message) ([]byte, error){
		models.TokenExchangeSubject: h.HandleTokenExchange,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		respond(ctx, msg, nil)
		return
	}

	response, err := handler(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error handling message", logging.ErrKey, err)
		respond(ctx, msg, nil)
		return
	}

	if !msg.HasReply() {
		slog.DebugContext(ctx, "handled NATS message (no reply expected)")
		return
	}
	respond(ctx, msg, response)
}

// HandleTokenExchange runs an exchange for the tenant named in the request.
// The payload is either {"tenant_id": "..."} or the bare tenant id.
// The reply is the same JSON document the HTTP endpoint returns.
func (h *ZoomTokenHandler) HandleTokenExchange(ctx context.Context, msg domain.Message) ([]byte, error) {
	if !h.HandlerReady() {
		return nil, fmt.Errorf("token exchange service not initialized")
	}

	tenantID, err := parseTenantID(msg.Data())
	if err != nil {
		return json.Marshal(models.TokenExchangeResponse{
			Error:     err.Error(),
			ErrorKind: models.ErrorKindConfiguration,
		})
	}

	result := h.exchangeService.ExchangeToken(ctx, tenantID)
	return json.Marshal(result.Response())
}

func parseTenantID(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var req models.TokenExchangeRequest
		if err := json.Unmarshal(data, &req); err != nil {
			return "", fmt.Errorf("invalid token exchange request: %w", err)
		}
		data = []byte(req.TenantID)
	}

	tenantID := strings.TrimSpace(string(data))
	if tenantID == "" {
		return "", fmt.Errorf("tenant id is required")
	}
	return tenantID, nil
}

func respond(ctx context.Context, msg domain.Message, data []byte) {
	if !msg.HasReply() {
		return
	}
	if err := msg.Respond(data); err != nil {
		slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
		return
	}
	slog.DebugContext(ctx, "responded to NATS message")
}
