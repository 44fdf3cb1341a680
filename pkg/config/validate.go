// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/telekom/hopscope/internal/logger"
)

var dnsLabels = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?)*$`)

// Validate validates the startup config
func (c *Config) Validate(ctx context.Context) (err error) {
	log := logger.FromContext(ctx)
	if !isDNSName(c.Name) {
		log.ErrorContext(ctx, "The name of the instance must be DNS compliant", "name", c.Name)
		err = errors.Join(err, ErrInvalidName)
	}

	if c.Interval < 0 {
		log.ErrorContext(ctx, "The trace interval should be equal or above 0", "interval", c.Interval)
		err = errors.Join(err, ErrInvalidInterval)
	}

	sess := c.Session()
	if c.HasDestinationsFile() {
		if c.DestinationsFile.Interval < 0 {
			log.ErrorContext(ctx, "The destinations file reload interval should be equal or above 0", "interval", c.DestinationsFile.Interval)
			err = errors.Join(err, ErrInvalidLoaderInterval)
		}
		if vErr := sess.ValidateOptions(); vErr != nil {
			log.ErrorContext(ctx, "The session configuration is invalid")
			err = errors.Join(err, vErr)
		}
	} else if vErr := sess.Validate(); vErr != nil {
		log.ErrorContext(ctx, "The session configuration is invalid")
		err = errors.Join(err, vErr)
	}

	if vErr := c.Probe.Validate(); vErr != nil {
		log.ErrorContext(ctx, "The probe configuration is invalid")
		err = errors.Join(err, vErr)
	}

	if !c.Output.Format.IsValid() {
		log.ErrorContext(ctx, "The output format is unknown", "format", c.Output.Format)
		err = errors.Join(err, ErrInvalidOutputFormat)
	}

	if vErr := c.Output.Webhook.Validate(); vErr != nil {
		log.ErrorContext(ctx, "The webhook configuration is invalid")
		err = errors.Join(err, vErr)
	}

	if c.HasTelemetry() {
		if vErr := c.Telemetry.Validate(ctx); vErr != nil {
			log.ErrorContext(ctx, "The telemetry configuration is invalid")
			err = errors.Join(err, vErr)
		}
	}

	if vErr := c.Api.Validate(); vErr != nil {
		log.ErrorContext(ctx, "The api configuration is invalid")
		err = errors.Join(err, vErr)
	}

	if err != nil {
		return fmt.Errorf("validation of configuration failed: %w", err)
	}
	return nil
}

// Validate validates the probe configuration. Retry, timeout and
// concurrency are validated as part of the session configuration.
func (p *ProbeConfig) Validate() (err error) {
	switch p.Mode {
	case ProbeModeExec, ProbeModeICMP:
	default:
		err = errors.Join(err, fmt.Errorf("%w: %q", ErrInvalidProbeMode, p.Mode))
	}
	if p.MaxHops < 0 || p.MaxHops > maxHopsLimit {
		err = errors.Join(err, fmt.Errorf("%w: %d", ErrInvalidMaxHops, p.MaxHops))
	}
	return err
}

// isDNSName checks if the given string is a valid DNS name
func isDNSName(s string) bool {
	return len(s) <= 253 && dnsLabels.MatchString(s)
}
