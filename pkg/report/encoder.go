// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/telekom/hopscope/pkg/session"
	"gopkg.in/yaml.v3"
)

// Format is a machine readable output format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// IsValid reports whether the format is known.
func (f Format) IsValid() bool {
	switch f {
	case FormatTable, FormatJSON, FormatYAML:
		return true
	}
	return false
}

var _ Sink = (*EncoderSink)(nil)

// EncoderSink writes completed and failed events as JSON or YAML documents.
type EncoderSink struct {
	mu     sync.Mutex
	encode func(any) error
}

// NewEncoderSink returns a sink encoding events to w in the given format.
func NewEncoderSink(w io.Writer, format Format) (*EncoderSink, error) {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return &EncoderSink{encode: enc.Encode}, nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return &EncoderSink{encode: enc.Encode}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

func (s *EncoderSink) Handle(_ context.Context, ev session.Event) error {
	if ev.Kind == session.EventStarted {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.encode(ev); err != nil {
		return fmt.Errorf("failed to encode %s event of %s: %w", ev.Kind, ev.Destination, err)
	}
	return nil
}
