// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/hopscope/internal/helper"
	"github.com/telekom/hopscope/internal/logger"
	"github.com/telekom/hopscope/internal/traceroute"
	"github.com/telekom/hopscope/pkg/db"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"
)

// eventBufferSize is the capacity of the event channel.
const eventBufferSize = 64

// Orchestrator starts traces in the background and reports their progress
// as [Event]s on a single channel.
type Orchestrator struct {
	runner  traceroute.Runner
	db      db.DB
	config  Config
	metrics metrics
	tracer  trace.Tracer
	sem     *semaphore.Weighted

	cfgMu sync.RWMutex

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
	events chan Event
	now    func() time.Time
}

// New creates a new Orchestrator. The configuration is expected to be valid.
func New(runner traceroute.Runner, store db.DB, cfg Config) *Orchestrator {
	o := &Orchestrator{
		runner:  runner,
		db:      store,
		config:  cfg,
		metrics: newMetrics(),
		tracer:  otel.Tracer("session"),
		events:  make(chan Event, eventBufferSize),
		now:     time.Now,
	}
	if cfg.Concurrency > 0 {
		o.sem = semaphore.NewWeighted(int64(cfg.Concurrency))
	}
	return o
}

// Events returns the channel the progress of all traces is reported on.
// It is closed by [Orchestrator.Close].
func (o *Orchestrator) Events() <-chan Event {
	return o.events
}

// StartTrace starts a trace of the destination in the background and
// returns immediately.
func (o *Orchestrator) StartTrace(ctx context.Context, destination string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		logger.FromContext(ctx).WarnContext(ctx, "Session is closed, ignoring trace request", "destination", destination)
		return
	}

	o.cfgMu.RLock()
	dest := o.config.lookup(destination)
	o.cfgMu.RUnlock()

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.trace(ctx, dest)
	}()
}

// StartAll starts a trace of every configured destination.
func (o *Orchestrator) StartAll(ctx context.Context) {
	for _, d := range o.Destinations() {
		o.StartTrace(ctx, d.Address)
	}
}

// Destinations returns the configured destinations.
func (o *Orchestrator) Destinations() []Destination {
	o.cfgMu.RLock()
	defer o.cfgMu.RUnlock()
	return append([]Destination(nil), o.config.Destinations...)
}

// UpdateDestinations replaces the configured destinations. The metrics of
// destinations that are no longer configured are removed. Traces already
// running are not affected.
func (o *Orchestrator) UpdateDestinations(ctx context.Context, dests []Destination) {
	log := logger.FromContext(ctx)
	o.cfgMu.Lock()
	defer o.cfgMu.Unlock()

	for _, old := range o.config.Destinations {
		if slices.ContainsFunc(dests, func(d Destination) bool { return d.Address == old.Address }) {
			continue
		}
		if err := o.metrics.Remove(old.Address); err != nil {
			log.DebugContext(ctx, "No metrics to remove for destination", "destination", old.Address)
		}
	}
	o.config.Destinations = append([]Destination(nil), dests...)
	log.InfoContext(ctx, "Updated destinations", "destinations", len(dests))
}

// Wait blocks until all started traces are done.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Close waits for all running traces and closes the event channel.
// Traces started after Close are ignored.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	o.mu.Unlock()

	o.wg.Wait()
	close(o.events)
}

// GetMetricCollectors returns the prometheus collectors of the session.
func (o *Orchestrator) GetMetricCollectors() []prometheus.Collector {
	return o.metrics.List()
}

// RemoveLabelledMetrics removes the metrics of the destination.
func (o *Orchestrator) RemoveLabelledMetrics(destination string) error {
	return o.metrics.Remove(destination)
}

// trace runs one full cycle for the destination.
func (o *Orchestrator) trace(ctx context.Context, dest Destination) {
	log := logger.FromContext(ctx).With("destination", dest.Address)
	ctx = logger.IntoContext(ctx, log)

	group := dest.GroupKey()
	ctx, span := o.tracer.Start(ctx, "session.trace", trace.WithAttributes(
		attribute.String("session.destination", dest.Address),
		attribute.String("session.group", group),
	))
	defer span.End()

	start := o.now()
	o.emit(ctx, Event{Kind: EventStarted, Destination: dest.Address, Group: group, Time: start})

	if o.sem != nil {
		if err := o.sem.Acquire(ctx, 1); err != nil {
			o.fail(ctx, span, dest, start, err)
			return
		}
		defer o.sem.Release(1)
	}

	runCtx := ctx
	if o.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, o.config.Timeout)
		defer cancel()
	}

	var output string
	err := helper.Retry(func(ctx context.Context) error {
		out, rErr := o.runner.Run(ctx, dest.Address)
		output = out
		return rErr
	}, o.config.Retry)(runCtx)
	if err != nil {
		o.fail(ctx, span, dest, start, err)
		return
	}

	res := traceroute.Result{
		ID:          uuid.NewString(),
		Destination: dest.Address,
		Hops:        traceroute.Parse(output),
		Timestamp:   start,
	}
	res.Duration = o.now().Sub(start)

	o.db.Append(group, res)
	o.metrics.Set(&res)
	span.SetAttributes(attribute.Int("session.hops", len(res.Hops)))
	log.DebugContext(ctx, "Trace complete", "hops", len(res.Hops), "duration", res.Duration.String())

	o.emit(ctx, Event{
		Kind:        EventCompleted,
		Destination: dest.Address,
		Group:       group,
		Result:      &res,
		Window:      o.db.Current(group),
		Time:        o.now(),
	})
}

func (o *Orchestrator) fail(ctx context.Context, span trace.Span, dest Destination, start time.Time, err error) {
	log := logger.FromContext(ctx)
	log.ErrorContext(ctx, "Failed to trace destination", "error", err)
	span.SetStatus(codes.Error, "trace failed")
	span.RecordError(err)
	o.metrics.Fail(dest.Address, o.now().Sub(start))

	pErr, _ := traceroute.IsProbeError(err)
	o.emit(ctx, Event{
		Kind:        EventFailed,
		Destination: dest.Address,
		Group:       dest.GroupKey(),
		Error:       err.Error(),
		Failure:     pErr,
		Err:         err,
		Time:        o.now(),
	})
}

// emit delivers the event. Once the context is done, events that do not fit
// into the buffer are dropped.
func (o *Orchestrator) emit(ctx context.Context, ev Event) {
	select {
	case o.events <- ev:
		return
	default:
	}

	select {
	case o.events <- ev:
	case <-ctx.Done():
		logger.FromContext(ctx).WarnContext(ctx, "Dropping session event", "kind", string(ev.Kind), "error", ctx.Err())
	}
}
