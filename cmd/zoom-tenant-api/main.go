// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package main is the zoom tenant service API. It exchanges each tenant's Zoom
// Server-to-Server OAuth credentials for access tokens over HTTP and NATS.
package main

import (
	_ "expvar"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
