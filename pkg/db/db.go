// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package db

import (
	"slices"
	"sync"

	"github.com/telekom/hopscope/internal/traceroute"
)

// DefaultCapacity is the number of results kept per group.
const DefaultCapacity = 3

var _ DB = (*InMemory)(nil)

// DB keeps a rolling window of the most recent traceroute results per group.
type DB interface {
	// Append adds the result to the window of the group.
	// The oldest result is evicted once the window is full.
	Append(group string, result traceroute.Result)
	// Current returns the results of the group, oldest first.
	Current(group string) []traceroute.Result
	// Groups returns the names of all groups holding results, sorted.
	Groups() []string
}

// InMemory is a [DB] that lives for the lifetime of the process.
type InMemory struct {
	mu       sync.RWMutex
	capacity int
	windows  map[string]*window
}

// NewInMemory creates an in-memory store keeping [DefaultCapacity] results per group.
func NewInMemory() *InMemory {
	return NewInMemoryWithCapacity(DefaultCapacity)
}

// NewInMemoryWithCapacity creates an in-memory store keeping up to capacity results per group.
// A capacity below 1 falls back to [DefaultCapacity].
func NewInMemoryWithCapacity(capacity int) *InMemory {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &InMemory{
		capacity: capacity,
		windows:  make(map[string]*window),
	}
}

func (i *InMemory) Append(group string, result traceroute.Result) {
	i.mu.Lock()
	defer i.mu.Unlock()

	w, ok := i.windows[group]
	if !ok {
		w = newWindow(i.capacity)
		i.windows[group] = w
	}
	w.push(result)
}

// Current returns a copy of the window of the group, oldest first.
// Unknown groups result in an empty slice.
func (i *InMemory) Current(group string) []traceroute.Result {
	i.mu.RLock()
	defer i.mu.RUnlock()

	w, ok := i.windows[group]
	if !ok {
		return []traceroute.Result{}
	}
	return w.list()
}

func (i *InMemory) Groups() []string {
	i.mu.RLock()
	defer i.mu.RUnlock()

	groups := make([]string, 0, len(i.windows))
	for g := range i.windows {
		groups = append(groups, g)
	}
	slices.Sort(groups)
	return groups
}

// window is a fixed size ring buffer of results.
type window struct {
	entries []traceroute.Result
	// start is the index of the oldest entry.
	start int
	size  int
}

func newWindow(capacity int) *window {
	return &window{entries: make([]traceroute.Result, capacity)}
}

func (w *window) push(r traceroute.Result) {
	idx := (w.start + w.size) % len(w.entries)
	w.entries[idx] = r
	if w.size < len(w.entries) {
		w.size++
		return
	}
	w.start = (w.start + 1) % len(w.entries)
}

func (w *window) list() []traceroute.Result {
	out := make([]traceroute.Result, 0, w.size)
	for n := range w.size {
		out = append(out, w.entries[(w.start+n)%len(w.entries)])
	}
	return out
}
