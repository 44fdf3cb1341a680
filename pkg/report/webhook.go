// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/telekom/hopscope/internal/logger"
	"github.com/telekom/hopscope/pkg/session"
)

const (
	defaultWebhookTimeout = 10 * time.Second
	defaultWebhookRetries = 3
)

// WebhookConfig configures the delivery of events to an HTTP endpoint.
type WebhookConfig struct {
	// URL is the endpoint the events are posted to. An empty URL disables the webhook.
	URL string `json:"url" yaml:"url" mapstructure:"url"`
	// Timeout bounds a single delivery attempt.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// Retries is the number of additional delivery attempts.
	Retries int `json:"retries" yaml:"retries" mapstructure:"retries"`
	// Headers are added to every request.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty" mapstructure:"headers"`
}

// Enabled reports whether a webhook is configured.
func (c WebhookConfig) Enabled() bool {
	return c.URL != ""
}

// Validate checks the webhook configuration.
func (c WebhookConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	u, err := url.ParseRequestURI(c.URL)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid webhook url scheme %q", u.Scheme)
	}
	if c.Timeout < 0 {
		return errors.New("webhook timeout must not be negative")
	}
	if c.Retries < 0 {
		return errors.New("webhook retries must not be negative")
	}
	return nil
}

var _ Sink = (*WebhookSink)(nil)

// WebhookSink posts completed and failed events as JSON.
type WebhookSink struct {
	config  WebhookConfig
	client  *http.Client
	backoff func() backoff.BackOff
}

// NewWebhookSink returns a sink delivering events to the configured endpoint.
func NewWebhookSink(cfg WebhookConfig) *WebhookSink {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultWebhookTimeout
	}
	return &WebhookSink{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 5 * time.Second
			return b
		},
	}
}

func (s *WebhookSink) Handle(ctx context.Context, ev session.Event) error {
	if ev.Kind == session.EventStarted {
		return nil
	}
	log := logger.FromContext(ctx)

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", ev.Kind, err)
	}

	operation := func() (int, error) {
		return s.post(ctx, body)
	}
	status, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(s.backoff()),
		backoff.WithMaxTries(uint(max(s.config.Retries, 0))+1), // #nosec G115 // not negative
		backoff.WithNotify(func(err error, d time.Duration) {
			log.WarnContext(ctx, "Webhook delivery failed, retrying", "delay", d.String(), "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to deliver %s event of %s: %w", ev.Kind, ev.Destination, err)
	}
	log.DebugContext(ctx, "Delivered event to webhook", "status", status, "kind", string(ev.Kind))
	return nil
}

// post sends a single request. Client errors are not retried.
func (s *WebhookSink) post(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.URL, bytes.NewReader(body))
	if err != nil {
		return 0, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range s.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return resp.StatusCode, nil
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		return resp.StatusCode, backoff.Permanent(fmt.Errorf("webhook rejected event: %s", resp.Status))
	default:
		return resp.StatusCode, fmt.Errorf("webhook returned %s", resp.Status)
	}
}
