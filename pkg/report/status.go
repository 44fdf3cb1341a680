// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"fmt"
	"io"

	"github.com/telekom/hopscope/pkg/session"
)

var _ Sink = (*StatusSink)(nil)

// StatusSink writes one status line per event.
type StatusSink struct {
	w io.Writer
}

// NewStatusSink returns a sink writing status lines to w.
func NewStatusSink(w io.Writer) *StatusSink {
	return &StatusSink{w: w}
}

func (s *StatusSink) Handle(_ context.Context, ev session.Event) error {
	status := ev.Status()
	if status == "" {
		return nil
	}
	_, err := fmt.Fprintln(s.w, status)
	return err
}
