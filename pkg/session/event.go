// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"time"

	"github.com/telekom/hopscope/internal/traceroute"
)

// EventKind is the kind of a session [Event].
type EventKind string

const (
	// EventStarted is emitted when a trace has been started.
	EventStarted EventKind = "started"
	// EventCompleted is emitted when a trace produced a result.
	EventCompleted EventKind = "completed"
	// EventFailed is emitted when the probe of a trace failed.
	EventFailed EventKind = "failed"
)

// Event is a progress notification of a trace.
type Event struct {
	Kind        EventKind `json:"kind" yaml:"kind"`
	Destination string    `json:"destination" yaml:"destination"`
	Group       string    `json:"group" yaml:"group"`
	// Result is set for [EventCompleted].
	Result *traceroute.Result `json:"result,omitempty" yaml:"result,omitempty"`
	// Window is the result window of the group after the result has been
	// appended, oldest first. It is set for [EventCompleted].
	Window []traceroute.Result `json:"window,omitempty" yaml:"window,omitempty"`
	// Error is the message of the failure. It is set for [EventFailed].
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	// Failure is the classified probe failure if the probe reported one.
	Failure *traceroute.ProbeError `json:"-" yaml:"-"`
	// Err is the failure cause as returned by the probe.
	Err  error     `json:"-" yaml:"-"`
	Time time.Time `json:"time" yaml:"time"`
}

// Status returns the user facing status line of the event.
func (e Event) Status() string {
	switch e.Kind {
	case EventStarted:
		return "Tracing " + e.Destination + "..."
	case EventCompleted:
		return "Trace complete: " + e.Destination
	case EventFailed:
		return "Failed to trace " + e.Destination
	default:
		return ""
	}
}
