// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/domain"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/messaging"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/zoom"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/zoom/api"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/infrastructure/zoom/oauth"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/metrics"
	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/service"
)

// services is the wired service graph shared by the serve and exchange commands.
type services struct {
	exchanges  *service.TokenExchangeService
	configs    *service.ZoomConfigService
	recordings *service.RecordingService
	registry   *prometheus.Registry
	metrics    *metrics.TokenExchangeMetrics
}

// newServices wires the services on top of a credential store. messageBuilder may be nil.
func newServices(e environment, repo domain.TenantCredentialsRepository, messageBuilder *messaging.MessageBuilder) *services {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewTokenExchangeMetrics(registry)

	serviceConfig := service.ServiceConfig{
		VerifyConcurrency: e.VerifyConcurrency,
		PublishEvents:     e.PublishEvents,
	}

	exchanger := oauth.NewClient(repo, oauth.Config{
		TokenURL: e.ZoomTokenURL,
		Timeout:  e.ZoomTokenTimeout,
	})

	observers := []service.ExchangeObserver{
		service.LoggingObserver{},
		service.MetricsObserver{Metrics: m},
	}
	var configEvents domain.ZoomConfigEventSender
	if messageBuilder != nil {
		configEvents = messageBuilder
		if serviceConfig.PublishEvents {
			observers = append(observers, service.EventObserver{Sender: messageBuilder})
		}
	}

	exchanges := service.NewTokenExchangeService(exchanger, observers...)
	provider := zoom.NewProvider(exchanges, api.Config{BaseURL: e.ZoomAPIBaseURL})

	return &services{
		exchanges:  exchanges,
		configs:    service.NewZoomConfigService(repo, exchanges, configEvents, m, serviceConfig),
		recordings: service.NewRecordingService(provider),
		registry:   registry,
		metrics:    m,
	}
}
