// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package hopscope

import (
	"io"

	"github.com/telekom/hopscope/pkg/config"
	"github.com/telekom/hopscope/pkg/report"
)

// NewSinks builds the presentation sinks of the output configuration.
// Status lines go to status, tables and encoded events to out.
func NewSinks(cfg config.OutputConfig, out, status io.Writer) ([]report.Sink, error) {
	sinks := []report.Sink{report.NewStatusSink(status)}

	switch cfg.Format {
	case report.FormatTable, "":
		sinks = append(sinks, report.NewTableSink(out))
	default:
		enc, err := report.NewEncoderSink(out, cfg.Format)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, enc)
	}

	if cfg.Webhook.Enabled() {
		sinks = append(sinks, report.NewWebhookSink(cfg.Webhook))
	}
	return sinks, nil
}
