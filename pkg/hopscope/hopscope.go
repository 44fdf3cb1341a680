// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package hopscope

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/telekom/hopscope/internal/logger"
	"github.com/telekom/hopscope/internal/traceroute"
	"github.com/telekom/hopscope/pkg"
	"github.com/telekom/hopscope/pkg/api"
	"github.com/telekom/hopscope/pkg/config"
	"github.com/telekom/hopscope/pkg/db"
	"github.com/telekom/hopscope/pkg/hopscope/metrics"
	"github.com/telekom/hopscope/pkg/report"
	"github.com/telekom/hopscope/pkg/session"
)

const shutdownTimeout = time.Second * 90

// Hopscope is the main struct of the hopscope application
type Hopscope struct {
	// config is the startup configuration
	config *config.Config
	// db holds the result windows
	db db.DB
	// api is the http api
	api api.API
	// metrics is used to collect metrics
	metrics metrics.Provider
	// session runs the traces
	session *session.Orchestrator
	// reports presents the session events
	reports *report.Manager
	// failures counts the failed destinations of a round
	failures *failureSink
	// loader loads the destinations from a file, if configured
	loader *config.FileLoader
	// cDest is used to signal that the destinations have changed
	cDest chan []session.Destination
	// cErr is used to handle non-recoverable errors of the components
	cErr chan error
	// cDone is used to signal that hopscope was shut down
	cDone chan struct{}
	// cReportsDone is closed once the presentation loop returned
	cReportsDone chan struct{}
	// shutOnce is used to ensure that the shutdown function is only called once
	shutOnce sync.Once
}

// New creates a new hopscope from the given configuration.
// The configuration is expected to be validated.
func New(cfg *config.Config, runner traceroute.Runner, sinks ...report.Sink) *Hopscope {
	store := db.NewInMemory()
	failures := &failureSink{}

	h := &Hopscope{
		config:       cfg,
		db:           store,
		api:          api.New(cfg.Api),
		metrics:      metrics.New(cfg.Telemetry),
		session:      session.New(runner, store, cfg.Session()),
		reports:      report.NewManager(append([]report.Sink{failures}, sinks...)...),
		failures:     failures,
		cDest:        make(chan []session.Destination, 1),
		cErr:         make(chan error, 4),
		cDone:        make(chan struct{}, 1),
		cReportsDone: make(chan struct{}),
	}
	if cfg.HasDestinationsFile() {
		h.loader = config.NewFileLoader(cfg.DestinationsFile, h.cDest)
	}
	return h
}

// NewRunner returns the [traceroute.Runner] selected by the probe configuration.
func NewRunner(cfg config.ProbeConfig) traceroute.Runner {
	if cfg.Mode == config.ProbeModeICMP {
		return traceroute.NewICMPRunner(traceroute.Options{
			MaxHops:   cfg.MaxHops,
			NoResolve: cfg.NoResolve,
		})
	}
	return traceroute.NewCommandRunner()
}

// Run starts hopscope as a daemon. A trace round over all destinations is
// started immediately and then once every interval.
func (h *Hopscope) Run(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	log := logger.FromContext(ctx)
	defer cancel()

	if err := h.metrics.InitTracing(ctx); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if err := h.registerMetrics(); err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	if h.config.HasAPI() {
		if err := h.api.RegisterRoutes(ctx, h.routes()...); err != nil {
			return fmt.Errorf("failed to register routes: %w", err)
		}
		go func() {
			h.cErr <- h.api.Run(ctx)
		}()
	}

	go h.runReports(ctx)

	if h.loader != nil {
		go func() {
			if err := h.loader.Run(ctx); err != nil {
				h.cErr <- err
			}
		}()
	} else {
		h.session.StartAll(ctx)
	}

	interval := h.config.Interval
	if interval <= 0 {
		interval = config.DefaultInterval
	}
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case dests := <-h.cDest:
			h.session.UpdateDestinations(ctx, dests)
			log.DebugContext(ctx, "Destinations loaded, starting trace round", "destinations", len(dests))
			h.session.StartAll(ctx)
		case <-tick.C:
			log.DebugContext(ctx, "Starting trace round")
			h.session.StartAll(ctx)
		case <-ctx.Done():
			h.shutdown(ctx)
		case err := <-h.cErr:
			if err != nil {
				log.ErrorContext(ctx, "Non-recoverable error in hopscope component", "error", err)
				h.shutdown(ctx)
			}
		case <-h.cDone:
			log.InfoContext(ctx, "Hopscope was shut down")
			return ErrFinalShutdown
		}
	}
}

// Once traces every destination once, presents the results and returns.
// It returns an [ErrTraceFailed] if any destination could not be traced.
func (h *Hopscope) Once(ctx context.Context) error {
	ctx, cancel := logger.NewContextWithLogger(ctx)
	defer cancel()
	log := logger.FromContext(ctx)

	if err := h.metrics.InitTracing(ctx); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		sCtx, sCancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer sCancel()
		if err := h.metrics.Shutdown(sCtx); err != nil {
			log.WarnContext(ctx, "Failed to shut down telemetry", "error", err)
		}
	}()

	if h.loader != nil {
		dests, err := h.loader.Load(ctx)
		if err != nil {
			return err
		}
		h.session.UpdateDestinations(ctx, dests)
	}

	go h.runReports(ctx)
	h.session.StartAll(ctx)
	h.session.Close()
	<-h.cReportsDone

	if err := ctx.Err(); err != nil {
		return err
	}
	if failed := h.failures.Failed(); len(failed) > 0 {
		return ErrTraceFailed{Failed: failed, Total: len(h.session.Destinations())}
	}
	return nil
}

func (h *Hopscope) runReports(ctx context.Context) {
	defer close(h.cReportsDone)
	if err := h.reports.Run(ctx, h.session.Events()); err != nil && !errors.Is(err, context.Canceled) {
		logger.FromContext(ctx).ErrorContext(ctx, "Presentation stopped", "error", err)
	}
}

func (h *Hopscope) registerMetrics() error {
	registry := h.metrics.GetRegistry()
	for _, c := range h.session.GetMetricCollectors() {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	version := pkg.Version
	if version == "" {
		version = "dev"
	}
	return metrics.RegisterInstanceInfo(registry, h.config.Name, version, string(h.config.Probe.Mode))
}

// shutdown shuts down hopscope and all managed components gracefully.
func (h *Hopscope) shutdown(ctx context.Context) {
	errC := ctx.Err()
	log := logger.FromContext(ctx)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	h.shutOnce.Do(func() {
		log.InfoContext(ctx, "Shutting down hopscope")
		var sErrs ErrShutdown
		if h.config.HasAPI() {
			sErrs.errAPI = h.api.Shutdown(ctx)
		}
		if h.loader != nil {
			h.loader.Shutdown(ctx)
		}

		h.session.Close()
		select {
		case <-h.cReportsDone:
		case <-ctx.Done():
			sErrs.errReports = fmt.Errorf("presentation did not finish: %w", ctx.Err())
		}
		sErrs.errMetrics = h.metrics.Shutdown(ctx)

		if sErrs.HasError() {
			log.ErrorContext(ctx, "Failed to shutdown gracefully", "contextError", errC, "errors", sErrs)
		}

		// Signal that shutdown is complete
		h.cDone <- struct{}{}
	})
}

// failureSink records the destinations whose last trace failed.
type failureSink struct {
	mu     sync.Mutex
	failed []string
}

func (f *failureSink) Handle(_ context.Context, ev session.Event) error {
	if ev.Kind != session.EventFailed {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = append(f.failed, ev.Destination)
	return nil
}

// Failed returns the destinations that failed.
func (f *failureSink) Failed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.failed...)
}
