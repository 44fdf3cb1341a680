// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/telekom/hopscope/internal/traceroute"
)

const labelDestination = "destination"

// ErrMetricNotFound is returned if a metric with the given label could not be found
type ErrMetricNotFound struct {
	Label string
}

func (e ErrMetricNotFound) Error() string {
	return fmt.Sprintf("metric for label %q not found", e.Label)
}

// metrics defines the metric collectors of the trace sessions
type metrics struct {
	hops     *prometheus.GaugeVec
	lastRTT  *prometheus.GaugeVec
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// newMetrics initializes metric collectors of the trace sessions
func newMetrics() metrics {
	return metrics{
		hops: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hopscope_traceroute_hops",
				Help: "Number of hops reported by the last trace of the destination.",
			},
			[]string{labelDestination},
		),
		lastRTT: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hopscope_traceroute_last_hop_rtt_milliseconds",
				Help: "Average round trip time of the final hop of the last trace in milliseconds.",
			},
			[]string{labelDestination},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hopscope_traceroute_duration_seconds",
				Help:    "Histogram of trace durations in seconds.",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
			},
			[]string{labelDestination},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hopscope_traceroute_failures_total",
				Help: "Total number of failed traces of the destination.",
			},
			[]string{labelDestination},
		),
	}
}

// List returns all metric collectors
func (m *metrics) List() []prometheus.Collector {
	return []prometheus.Collector{
		m.hops,
		m.lastRTT,
		m.duration,
		m.failures,
	}
}

// Set records a successful trace.
func (m *metrics) Set(res *traceroute.Result) {
	m.hops.WithLabelValues(res.Destination).Set(float64(len(res.Hops)))
	m.duration.WithLabelValues(res.Destination).Observe(res.Duration.Seconds())

	last, ok := res.LastHop()
	if !ok {
		m.lastRTT.DeleteLabelValues(res.Destination)
		return
	}
	if avg, ok := last.AverageRTT(); ok {
		m.lastRTT.WithLabelValues(res.Destination).Set(avg)
		return
	}
	m.lastRTT.DeleteLabelValues(res.Destination)
}

// Fail records a failed trace.
func (m *metrics) Fail(destination string, took time.Duration) {
	m.failures.WithLabelValues(destination).Inc()
	m.duration.WithLabelValues(destination).Observe(took.Seconds())
}

// Remove removes the metrics of one destination
func (m *metrics) Remove(destination string) error {
	found := false
	for _, vec := range []*prometheus.MetricVec{m.hops.MetricVec, m.lastRTT.MetricVec, m.duration.MetricVec, m.failures.MetricVec} {
		if vec.DeleteLabelValues(destination) {
			found = true
		}
	}
	if !found {
		return ErrMetricNotFound{Label: destination}
	}
	return nil
}
