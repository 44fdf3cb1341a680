// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/telekom/hopscope/pkg/config"
)

// flag binds a command line flag to a configuration key
type flag struct {
	name string
	key  string
}

var (
	flagName         = flag{name: "name", key: "name"}
	flagDestinations = flag{name: "destinations", key: "destinations"}
	flagDestFile     = flag{name: "destinationsFile", key: "destinationsFile.path"}
	flagInterval     = flag{name: "interval", key: "interval"}
	flagMode         = flag{name: "mode", key: "probe.mode"}
	flagRetries      = flag{name: "retries", key: "probe.retry.count"}
	flagRetryDelay   = flag{name: "retryDelay", key: "probe.retry.delay"}
	flagTimeout      = flag{name: "timeout", key: "probe.timeout"}
	flagMaxHops      = flag{name: "maxHops", key: "probe.maxHops"}
	flagConcurrency  = flag{name: "concurrency", key: "probe.concurrency"}
	flagNoResolve    = flag{name: "noResolve", key: "probe.noResolve"}
	flagOutput       = flag{name: "output", key: "output.format"}
	flagWebhook      = flag{name: "webhook", key: "output.webhook.url"}
	flagAPIAddress   = flag{name: "apiAddress", key: "api.address"}
)

// addProbeFlags adds the flags shared by all commands that trace.
func addProbeFlags(fs *pflag.FlagSet) {
	fs.String(flagName.name, "", "The DNS name of this instance, defaults to the hostname")
	fs.StringSlice(flagDestinations.name, nil, "Destinations to trace, use group=address to share a result window")
	fs.String(flagDestFile.name, "", "Load the destinations from a YAML file")
	fs.String(flagMode.name, string(config.ProbeModeExec), "Probe mode: exec runs the traceroute utility, icmp probes natively")
	fs.Int(flagRetries.name, 0, "Number of retries of a failed probe")
	fs.Duration(flagRetryDelay.name, 0, "Initial delay between two retries")
	fs.Duration(flagTimeout.name, 0, "Timeout of a single trace including retries, 0 disables the timeout")
	fs.Int(flagMaxHops.name, 0, "Maximum number of hops of the icmp probe mode")
	fs.Int(flagConcurrency.name, 0, "Maximum number of concurrent traces, 0 is unlimited")
	fs.Bool(flagNoResolve.name, false, "Do not resolve hop addresses in icmp probe mode")
	fs.String(flagWebhook.name, "", "Post completed and failed traces to this URL")
}

// bindFlags binds the flags to their configuration keys.
func bindFlags(fs *pflag.FlagSet, flags ...flag) {
	for _, f := range flags {
		if pf := fs.Lookup(f.name); pf != nil {
			cobra.CheckErr(viper.BindPFlag(f.key, pf))
		}
	}
}

// loadConfig unmarshals, defaults and validates the configuration.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg := &config.Config{}
	if err := viper.Unmarshal(cfg, viper.DecodeHook(config.DecodeHook())); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.ApplyDefaults()

	if err := cfg.Validate(ctx); err != nil {
		return nil, fmt.Errorf("error while validating the config: %w", err)
	}
	return cfg, nil
}
