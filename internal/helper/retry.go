// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package helper

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/telekom/hopscope/internal/logger"
)

// maxRetryCount caps the configurable amount of retries.
const maxRetryCount = 10

// ErrInvalidRetryConfig is returned when a [RetryConfig] cannot be used.
var ErrInvalidRetryConfig = errors.New("invalid retry configuration")

// RetryConfig describes how often and how patiently a failed call is repeated.
// A zero value disables retries.
type RetryConfig struct {
	Count int           `json:"count" yaml:"count" mapstructure:"count"`
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`
}

// Validate checks that the retry configuration is usable.
func (rc RetryConfig) Validate() error {
	if rc.Count < 0 || rc.Count > maxRetryCount {
		return ErrInvalidRetryConfig
	}
	if rc.Count > 0 && rc.Delay <= 0 {
		return ErrInvalidRetryConfig
	}
	return nil
}

// Effector will be the function called by the Retry function
type Effector func(context.Context) error

// Retry wraps the effector so that failed calls are repeated with an exponential backoff.
// The first call is not counted as a retry, so Count 2 results in up to three calls.
func Retry(effector Effector, rc RetryConfig) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		log := logger.FromContext(ctx)
		for attempt := 1; ; attempt++ {
			err := effector(ctx)
			if err == nil || attempt > rc.Count {
				return err
			}

			delay := getExpBackoff(rc.Delay, attempt)
			log.WarnContext(ctx, "Effector call failed, retrying",
				"attempt", attempt,
				"delay", delay.String(),
				"error", err,
			)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
}

// getExpBackoff calculates the exponential delay for a given iteration.
// The first iteration is 1.
func getExpBackoff(initialDelay time.Duration, iteration int) time.Duration {
	if iteration <= 1 {
		return initialDelay
	}
	return time.Duration(math.Pow(2, float64(iteration-1))) * initialDelay
}
