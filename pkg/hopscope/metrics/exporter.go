// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc/credentials"
)

// Exporter is the type of the span exporter
type Exporter string

const (
	// HTTP is the OTLP HTTP exporter
	HTTP Exporter = "http"
	// GRPC is the OTLP gRPC exporter
	GRPC Exporter = "grpc"
	// STDOUT writes the spans to stdout
	STDOUT Exporter = "stdout"
	// NOOP drops all spans
	NOOP Exporter = "noop"
)

func (e Exporter) String() string {
	return string(e)
}

// Validate validates the exporter type
func (e Exporter) Validate() error {
	if _, ok := exporterFactories[e]; !ok && e != "" {
		return fmt.Errorf("unsupported exporter type: %q", e)
	}
	return nil
}

// IsExporting returns true if the exporter sends spans to a collector
func (e Exporter) IsExporting() bool {
	return e == HTTP || e == GRPC
}

type exporterFactory func(ctx context.Context, config *Config) (sdktrace.SpanExporter, error)

// spanWriter receives the spans of the stdout exporter.
var spanWriter io.Writer = os.Stderr

var exporterFactories = map[Exporter]exporterFactory{
	HTTP:   newHTTPExporter,
	GRPC:   newGRPCExporter,
	STDOUT: newStdoutExporter,
	NOOP:   newNoopExporter,
}

// Create creates a new span exporter of the given type.
// An empty exporter type creates a no-op exporter.
func (e Exporter) Create(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	if e == "" {
		return newNoopExporter(ctx, config)
	}
	factory, ok := exporterFactories[e]
	if !ok {
		return nil, fmt.Errorf("unsupported exporter type: %q", e)
	}
	return factory(ctx, config)
}

func newHTTPExporter(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracehttp.Option{otlptracehttp.WithEndpointURL(config.Url)}
	if config.Token != "" {
		opts = append(opts, otlptracehttp.WithHeaders(authHeader(config.Token)))
	}

	tlsCfg, err := getTLSConfig(config.TLS)
	if err != nil {
		return nil, err
	}
	if tlsCfg == nil {
		opts = append(opts, otlptracehttp.WithInsecure())
	} else {
		opts = append(opts, otlptracehttp.WithTLSClientConfig(tlsCfg))
	}
	return otlptracehttp.New(ctx, opts...)
}

func newGRPCExporter(ctx context.Context, config *Config) (sdktrace.SpanExporter, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpointURL(config.Url)}
	if config.Token != "" {
		opts = append(opts, otlptracegrpc.WithHeaders(authHeader(config.Token)))
	}

	tlsCfg, err := getTLSConfig(config.TLS)
	if err != nil {
		return nil, err
	}
	if tlsCfg == nil {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(tlsCfg)))
	}
	return otlptracegrpc.New(ctx, opts...)
}

// newStdoutExporter writes spans to stderr, stdout carries the trace results.
func newStdoutExporter(_ context.Context, _ *Config) (sdktrace.SpanExporter, error) {
	return stdouttrace.New(stdouttrace.WithWriter(spanWriter), stdouttrace.WithPrettyPrint())
}

func newNoopExporter(_ context.Context, _ *Config) (sdktrace.SpanExporter, error) {
	return noopExporter{}, nil
}

// noopExporter drops all spans
type noopExporter struct{}

func (noopExporter) ExportSpans(context.Context, []sdktrace.ReadOnlySpan) error { return nil }
func (noopExporter) Shutdown(context.Context) error                             { return nil }

func authHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// getTLSConfig returns nil if TLS is disabled. Without a certificate path the
// system certificate pool is used.
func getTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	tlsCfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if cfg.CertPath == "" {
		return tlsCfg, nil
	}

	cert, err := os.ReadFile(cfg.CertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(cert) {
		return nil, fmt.Errorf("failed to append certificate %q to pool", cfg.CertPath)
	}
	tlsCfg.RootCAs = pool
	return tlsCfg, nil
}
