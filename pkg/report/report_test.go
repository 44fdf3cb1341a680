// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/hopscope/internal/traceroute"
	"github.com/telekom/hopscope/pkg/session"
)

func TestManager_Run(t *testing.T) {
	failing := &SinkMock{HandleFunc: func(context.Context, session.Event) error {
		return errors.New("broken sink")
	}}
	healthy := &SinkMock{HandleFunc: func(context.Context, session.Event) error {
		return nil
	}}
	m := NewManager(failing)
	m.Register(healthy)

	events := make(chan session.Event, 3)
	events <- session.Event{Kind: session.EventStarted, Destination: "example.com"}
	events <- session.Event{Kind: session.EventCompleted, Destination: "example.com"}
	events <- session.Event{Kind: session.EventFailed, Destination: "example.org"}
	close(events)

	require.NoError(t, m.Run(t.Context(), events))
	assert.Len(t, failing.HandleCalls(), 3)
	require.Len(t, healthy.HandleCalls(), 3)
	assert.Equal(t, session.EventFailed, healthy.HandleCalls()[2].Ev.Kind)
}

func TestManager_Run_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	events := make(chan session.Event)

	done := make(chan error, 1)
	go func() { done <- NewManager().Run(ctx, events) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the context was canceled")
	}
}

func TestFormatRTT(t *testing.T) {
	tests := []struct {
		name string
		hop  traceroute.Hop
		want string
	}{
		{
			name: "rounded to two decimals",
			hop:  traceroute.Hop{Samples: []*float64{traceroute.Sample(12.3), traceroute.Sample(11.8), traceroute.Sample(13.0)}},
			want: "12.37",
		},
		{
			name: "absent samples ignored",
			hop:  traceroute.Hop{Samples: []*float64{nil, traceroute.Sample(8.19), nil}},
			want: "8.19",
		},
		{
			name: "no samples",
			hop:  traceroute.Hop{Samples: []*float64{nil, nil, nil}},
			want: NoData,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRTT(tt.hop))
		})
	}
}

func TestStatusSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewStatusSink(&buf)
	for _, kind := range []session.EventKind{session.EventStarted, session.EventCompleted, session.EventFailed} {
		require.NoError(t, s.Handle(t.Context(), session.Event{Kind: kind, Destination: "example.com"}))
	}
	assert.Equal(t, "Tracing example.com...\nTrace complete: example.com\nFailed to trace example.com\n", buf.String())
}
