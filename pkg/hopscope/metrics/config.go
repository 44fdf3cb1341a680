// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"fmt"

	"github.com/telekom/hopscope/internal/logger"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Config holds the configuration for OpenTelemetry
type Config struct {
	// Enabled is a flag to enable or disable the OpenTelemetry
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	// Exporter is the otlp exporter used to export the traces
	Exporter Exporter `json:"exporter" yaml:"exporter" mapstructure:"exporter"`
	// Url is the Url of the collector to which the traces are exported
	Url string `json:"url" yaml:"url" mapstructure:"url"`
	// Token is the token used to authenticate with the collector
	Token string `json:"token" yaml:"token" mapstructure:"token"`
	// TLS holds the tls configuration
	TLS TLSConfig `json:"tls" yaml:"tls" mapstructure:"tls"`
	// SampleRatio is the share of trace cycles that are sampled. 0 samples every cycle.
	SampleRatio float64 `json:"sampleRatio" yaml:"sampleRatio" mapstructure:"sampleRatio"`
}

type TLSConfig struct {
	// Enabled is a flag to enable or disable the tls
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	// CertPath is the path to the tls certificate file.
	// This is only required if the otel backend uses custom TLS certificates.
	CertPath string `json:"certPath" yaml:"certPath" mapstructure:"certPath"`
}

// Validate validates the telemetry configuration
func (c *Config) Validate(ctx context.Context) error {
	log := logger.FromContext(ctx)
	if err := c.Exporter.Validate(); err != nil {
		log.ErrorContext(ctx, "Invalid exporter", "error", err)
		return err
	}

	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		log.ErrorContext(ctx, "The sample ratio must be between 0 and 1", "ratio", c.SampleRatio)
		return fmt.Errorf("sample ratio %v is not between 0 and 1", c.SampleRatio)
	}

	if c.Exporter.IsExporting() && c.Url == "" {
		log.ErrorContext(ctx, "Url is required for otlp exporter", "exporter", c.Exporter)
		return fmt.Errorf("url is required for otlp exporter %q", c.Exporter)
	}
	return nil
}

// sampler returns the sampler of the trace cycles. A cycle that is part of
// a sampled parent trace is always sampled.
func (c *Config) sampler() sdktrace.Sampler {
	if c.SampleRatio <= 0 || c.SampleRatio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(c.SampleRatio))
}
