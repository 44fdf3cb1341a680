// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/telekom/hopscope/internal/logger"
	"github.com/telekom/hopscope/pkg/config"
	"github.com/telekom/hopscope/pkg/hopscope"
)

// NewCmdRun creates a new run command
func NewCmdRun() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run hopscope as a daemon",
		Long: "hopscope traces all destinations once per interval and keeps the latest\n" +
			"results of every destination. The results are exposed via the API.",
		RunE: run,
	}

	fs := cmd.Flags()
	addProbeFlags(fs)
	fs.Duration(flagInterval.name, config.DefaultInterval, "Time between two trace rounds")
	fs.String(flagOutput.name, "table", "Output format: table, json or yaml")
	fs.String(flagAPIAddress.name, ":8080", "The address the api server is listening on, empty disables the api")

	cmd.PreRun = func(cmd *cobra.Command, _ []string) {
		bindFlags(cmd.Flags(),
			flagName, flagDestinations, flagDestFile, flagInterval, flagMode, flagRetries, flagRetryDelay,
			flagTimeout, flagMaxHops, flagConcurrency, flagNoResolve, flagOutput, flagWebhook, flagAPIAddress,
		)
	}
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := logger.NewContextWithLogger(cmd.Context())
	defer cancel()
	log := logger.FromContext(ctx)

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}

	sinks, err := hopscope.NewSinks(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	h := hopscope.New(cfg, hopscope.NewRunner(cfg.Probe), sinks...)

	cErr := make(chan error, 1)
	log.InfoContext(ctx, "Running hopscope", "name", cfg.Name, "destinations", len(cfg.Destinations), "interval", cfg.Interval.String())
	go func() {
		cErr <- h.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-sigChan:
		log.InfoContext(ctx, "Signal received, shutting down")
		cancel()
		<-cErr
		return nil
	case err := <-cErr:
		if errors.Is(err, hopscope.ErrFinalShutdown) {
			return nil
		}
		return err
	}
}
