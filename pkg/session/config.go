// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
	"unicode"

	"github.com/telekom/hopscope/internal/helper"
	"gopkg.in/yaml.v3"
)

// DefaultDestinations are traced when no destinations are configured.
var DefaultDestinations = []Destination{
	{Address: "bbc.co.uk"},
	{Address: "amazon.com"},
	{Address: "google.com"},
}

// Destination is a trace target.
type Destination struct {
	// Address is the hostname or IP address to trace.
	Address string `json:"address" yaml:"address" mapstructure:"address"`
	// Group is the name of the result window the traces are collected in.
	// Destinations without a group get a window of their own.
	Group string `json:"group,omitempty" yaml:"group,omitempty" mapstructure:"group"`
}

// GroupKey returns the name of the result window of the destination.
func (d Destination) GroupKey() string {
	if d.Group != "" {
		return d.Group
	}
	return d.Address
}

func (d Destination) String() string {
	return d.Address
}

// UnmarshalYAML accepts a plain address as well as the mapping form.
func (d *Destination) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		d.Address = node.Value
		d.Group = ""
		return nil
	}
	type plain Destination
	return node.Decode((*plain)(d))
}

// Config is the configuration of the [Orchestrator].
type Config struct {
	// Destinations are the configured trace targets.
	Destinations []Destination `json:"destinations" yaml:"destinations" mapstructure:"destinations"`
	// Retry is the retry policy applied to failed probes.
	Retry helper.RetryConfig `json:"retry" yaml:"retry" mapstructure:"retry"`
	// Concurrency limits the number of probes running at the same time.
	// 0 means unlimited.
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
	// Timeout bounds a single trace including retries. 0 means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// Validate checks the configuration and returns all problems found.
func (c *Config) Validate() (err error) {
	if len(c.Destinations) == 0 {
		err = errors.Join(err, ErrInvalidConfig{Field: "destinations", Reason: "at least one destination is required"})
	}

	seen := make(map[string]bool, len(c.Destinations))
	for i, d := range c.Destinations {
		field := fmt.Sprintf("destinations[%d].address", i)
		if vErr := validateAddress(d.Address); vErr != nil {
			err = errors.Join(err, ErrInvalidConfig{Field: field, Reason: vErr.Error()})
			continue
		}
		if seen[d.Address] {
			err = errors.Join(err, ErrInvalidConfig{Field: field, Reason: fmt.Sprintf("duplicate destination %q", d.Address)})
		}
		seen[d.Address] = true
	}

	return errors.Join(err, c.ValidateOptions())
}

// ValidateOptions checks the configuration without the destinations.
func (c *Config) ValidateOptions() (err error) {
	if vErr := c.Retry.Validate(); vErr != nil {
		err = errors.Join(err, ErrInvalidConfig{Field: "retry", Reason: vErr.Error()})
	}
	if c.Concurrency < 0 {
		err = errors.Join(err, ErrInvalidConfig{Field: "concurrency", Reason: "must not be negative"})
	}
	if c.Timeout < 0 {
		err = errors.Join(err, ErrInvalidConfig{Field: "timeout", Reason: "must not be negative"})
	}
	return err
}

// validateAddress accepts IP literals and hostnames.
func validateAddress(addr string) error {
	switch {
	case addr == "":
		return errors.New("must not be empty")
	case net.ParseIP(addr) != nil:
		return nil
	case strings.HasPrefix(addr, "-"):
		return errors.New("must not start with '-'")
	case strings.IndexFunc(addr, unicode.IsSpace) >= 0:
		return errors.New("must not contain whitespace")
	case len(addr) > 253:
		return errors.New("hostname too long")
	}
	return nil
}

// lookup returns the configured destination for the address or an
// ungrouped destination if the address is not configured.
func (c *Config) lookup(address string) Destination {
	for _, d := range c.Destinations {
		if d.Address == address {
			return d
		}
	}
	return Destination{Address: address}
}
