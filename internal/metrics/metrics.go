// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package metrics holds the Prometheus metrics exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "zoom_tenant"

// TokenExchangeMetrics holds the Prometheus metrics for token exchanges.
type TokenExchangeMetrics struct {
	ExchangesTotal     *prometheus.CounterVec
	ExchangeDuration   *prometheus.HistogramVec
	RateLimitedTotal   prometheus.Counter
	ConfigChangesTotal *prometheus.CounterVec
}

// NewTokenExchangeMetrics initializes the metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewTokenExchangeMetrics(reg prometheus.Registerer) *TokenExchangeMetrics {
	factory := promauto.With(reg)
	return &TokenExchangeMetrics{
		ExchangesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_exchanges_total",
			Help:      "Total number of Zoom token exchanges by outcome.",
		}, []string{"outcome"}), // outcome: success, configuration, upstream_auth, transport, cancelled, credential_lookup
		ExchangeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "token_exchange_duration_seconds",
			Help:      "Duration of Zoom token exchanges by outcome.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"outcome"}),
		RateLimitedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Total number of token requests rejected by the per-tenant rate limit.",
		}),
		ConfigChangesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "config_changes_total",
			Help:      "Total number of tenant Zoom configuration changes by action.",
		}, []string{"action"}), // action: updated, deleted
	}
}
