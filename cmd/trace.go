// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/telekom/hopscope/internal/logger"
	"github.com/telekom/hopscope/pkg/hopscope"
)

// NewCmdTrace creates a new trace command
func NewCmdTrace() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace [destination...]",
		Short: "Trace destinations once",
		Long: "hopscope traces the given destinations, or the configured ones if none are given,\n" +
			"prints the results and exits. The exit code is non-zero if any destination failed.",
		Example: "  hopscope trace bbc.co.uk amazon.com --output json",
		RunE:    trace,
	}

	fs := cmd.Flags()
	addProbeFlags(fs)
	fs.StringP(flagOutput.name, "o", "table", "Output format: table, json or yaml")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		bindFlags(cmd.Flags(),
			flagName, flagDestinations, flagDestFile, flagMode, flagRetries, flagRetryDelay,
			flagTimeout, flagMaxHops, flagConcurrency, flagNoResolve, flagOutput, flagWebhook,
		)
		// the one-shot mode never serves the api
		viper.Set(flagAPIAddress.key, "")
		if len(args) > 0 {
			viper.Set(flagDestinations.key, args)
			viper.Set(flagDestFile.key, "")
		}
	}
	return cmd
}

func trace(cmd *cobra.Command, _ []string) error {
	ctx, cancel := logger.NewContextWithLogger(cmd.Context())
	defer cancel()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	sinks, err := hopscope.NewSinks(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	return hopscope.New(cfg, hopscope.NewRunner(cfg.Probe), sinks...).Once(ctx)
}
