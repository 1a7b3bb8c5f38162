// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

type Service interface {
	ServiceReady() bool
}

// ServiceConfig is the configuration for the Services.
type ServiceConfig struct {
	// VerifyConcurrency bounds how many tenants VerifyAll exchanges at once.
	VerifyConcurrency int
	// PublishEvents enables the NATS events for exchanges and configuration changes.
	PublishEvents bool
}

// defaultVerifyConcurrency is used when ServiceConfig.VerifyConcurrency is unset.
const defaultVerifyConcurrency = 5

// maxVerifyTenants caps a single VerifyAll call.
const maxVerifyTenants = 100
