// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"strconv"
	"sync"

	"github.com/telekom/hopscope/internal/logger"
	"github.com/telekom/hopscope/internal/traceroute"
	"github.com/telekom/hopscope/pkg/session"
)

// NoData is displayed for hops without any round trip sample.
const NoData = "no data"

// Sink presents session events.
//
//go:generate go tool moq -out sink_moq.go . Sink
type Sink interface {
	// Handle presents a single event.
	Handle(ctx context.Context, ev session.Event) error
}

// Manager fans session events out to its registered sinks.
type Manager struct {
	mu    sync.RWMutex
	sinks []Sink
}

// NewManager creates a new Manager with the given sinks.
func NewManager(sinks ...Sink) *Manager {
	return &Manager{sinks: sinks}
}

// Register adds a sink to the manager.
func (m *Manager) Register(s Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, s)
}

// Run consumes the events until the channel is closed or the context is done.
// Sink failures are logged and do not stop the loop.
func (m *Manager) Run(ctx context.Context, events <-chan session.Event) error {
	log := logger.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				log.DebugContext(ctx, "Event channel closed, stopping presentation")
				return nil
			}
			m.dispatch(ctx, ev)
		}
	}
}

func (m *Manager) dispatch(ctx context.Context, ev session.Event) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sinks {
		if err := s.Handle(ctx, ev); err != nil {
			logger.FromContext(ctx).ErrorContext(ctx, "Failed to present event",
				"kind", string(ev.Kind),
				"destination", ev.Destination,
				"error", err,
			)
		}
	}
}

// FormatRTT returns the average round trip time of the hop in milliseconds
// rounded to two decimals or [NoData].
func FormatRTT(h traceroute.Hop) string {
	avg, ok := h.AverageRTT()
	if !ok {
		return NoData
	}
	return strconv.FormatFloat(avg, 'f', 2, 64)
}
