// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"time"

	"github.com/telekom/hopscope/internal/helper"
	"github.com/telekom/hopscope/pkg/api"
	"github.com/telekom/hopscope/pkg/hopscope/metrics"
	"github.com/telekom/hopscope/pkg/report"
	"github.com/telekom/hopscope/pkg/session"
)

// ProbeMode selects how the path to a destination is probed.
type ProbeMode string

const (
	// ProbeModeExec runs the traceroute utility of the host
	ProbeModeExec ProbeMode = "exec"
	// ProbeModeICMP sends ICMP echo requests from a raw socket
	ProbeModeICMP ProbeMode = "icmp"
)

const (
	// DefaultInterval is the time between two trace rounds of the daemon
	DefaultInterval = 5 * time.Minute
	// maxHopsLimit is the highest TTL that can be probed
	maxHopsLimit = 255
)

type Config struct {
	// Name identifies the instance. It defaults to the hostname.
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	// Destinations are the trace targets
	Destinations []session.Destination `json:"destinations" yaml:"destinations" mapstructure:"destinations"`
	// DestinationsFile optionally loads the destinations from a file
	DestinationsFile LoaderConfig `json:"destinationsFile" yaml:"destinationsFile" mapstructure:"destinationsFile"`
	// Interval is the time between two trace rounds of the daemon
	Interval time.Duration `json:"interval" yaml:"interval" mapstructure:"interval"`
	// Probe is the configuration of the prober
	Probe ProbeConfig `json:"probe" yaml:"probe" mapstructure:"probe"`
	// Output is the configuration of the presentation
	Output OutputConfig `json:"output" yaml:"output" mapstructure:"output"`
	// Api is the configuration for the api server
	Api api.Config `json:"api" yaml:"api" mapstructure:"api"`
	// Telemetry is the configuration for the telemetry
	Telemetry metrics.Config `json:"telemetry" yaml:"telemetry" mapstructure:"telemetry"`
}

// ProbeConfig is the configuration of the prober
type ProbeConfig struct {
	Mode        ProbeMode          `json:"mode" yaml:"mode" mapstructure:"mode"`
	Retry       helper.RetryConfig `json:"retry" yaml:"retry" mapstructure:"retry"`
	Timeout     time.Duration      `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	MaxHops     int                `json:"maxHops" yaml:"maxHops" mapstructure:"maxHops"`
	Concurrency int                `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
	NoResolve   bool               `json:"noResolve" yaml:"noResolve" mapstructure:"noResolve"`
}

// OutputConfig is the configuration of the presentation
type OutputConfig struct {
	Format  report.Format        `json:"format" yaml:"format" mapstructure:"format"`
	Webhook report.WebhookConfig `json:"webhook" yaml:"webhook" mapstructure:"webhook"`
}

// LoaderConfig is the configuration of the destinations file loader
type LoaderConfig struct {
	// Path of the file. An empty path disables the loader.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
	// Interval is the reload interval. 0 loads the file once.
	Interval time.Duration `json:"interval" yaml:"interval" mapstructure:"interval"`
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	name, err := os.Hostname()
	if err != nil {
		name = "hopscope"
	}
	return &Config{
		Name:         name,
		Destinations: append([]session.Destination(nil), session.DefaultDestinations...),
		Interval:     DefaultInterval,
		Probe: ProbeConfig{
			Mode: ProbeModeExec,
		},
		Output: OutputConfig{
			Format: report.FormatTable,
		},
	}
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	def := Default()
	if c.Name == "" {
		c.Name = def.Name
	}
	if len(c.Destinations) == 0 && !c.HasDestinationsFile() {
		c.Destinations = def.Destinations
	}
	if c.Interval == 0 {
		c.Interval = def.Interval
	}
	if c.Probe.Mode == "" {
		c.Probe.Mode = def.Probe.Mode
	}
	if c.Output.Format == "" {
		c.Output.Format = def.Output.Format
	}
}

// Session returns the configuration of the trace session
func (c *Config) Session() session.Config {
	return session.Config{
		Destinations: c.Destinations,
		Retry:        c.Probe.Retry,
		Concurrency:  c.Probe.Concurrency,
		Timeout:      c.Probe.Timeout,
	}
}

// HasTelemetry returns true if the config has telemetry enabled
func (c *Config) HasTelemetry() bool {
	return c.Telemetry.Enabled
}

// HasAPI returns true if the api server should be started
func (c *Config) HasAPI() bool {
	return c.Api.Enabled()
}

// HasDestinationsFile returns true if destinations are loaded from a file
func (c *Config) HasDestinationsFile() bool {
	return c.DestinationsFile.Path != ""
}
