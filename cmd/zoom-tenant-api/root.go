// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"

	"github.com/linuxfoundation/lfx-v2-zoom-tenant-service/internal/logging"
)

func newRootCmd() *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:           "zoom-tenant-api",
		Short:         "Zoom access tokens for LFX tenants",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			loadDotEnv()
			applyDebug(debug)
			logging.InitStructureLogConfig()
		},
	}
	root.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")

	root.AddCommand(newServeCmd(), newExchangeCmd())
	return root
}
