// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package hopscope

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/hopscope/pkg/config"
	"github.com/telekom/hopscope/pkg/report"
)

func TestNewSinks(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.OutputConfig
		want    []any
		wantErr bool
	}{
		{
			name: "table",
			cfg:  config.OutputConfig{Format: report.FormatTable},
			want: []any{&report.StatusSink{}, &report.TableSink{}},
		},
		{
			name: "json with webhook",
			cfg: config.OutputConfig{
				Format:  report.FormatJSON,
				Webhook: report.WebhookConfig{URL: "https://hooks.example.com"},
			},
			want: []any{&report.StatusSink{}, &report.EncoderSink{}, &report.WebhookSink{}},
		},
		{
			name:    "unknown format",
			cfg:     config.OutputConfig{Format: "xml"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sinks, err := NewSinks(tt.cfg, &bytes.Buffer{}, &bytes.Buffer{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, sinks, len(tt.want))
			for i := range sinks {
				assert.IsType(t, tt.want[i], sinks[i])
			}
		})
	}
}
