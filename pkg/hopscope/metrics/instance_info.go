// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	instanceInfoMetricName = "hopscope_instance_info"
	instanceInfoHelp       = "Build and platform information of this hopscope instance. Emitted once per instance."
)

// RegisterInstanceInfo registers the hopscope_instance_info info-style metric on the given registry.
// It sets the gauge to 1 with labels instance_name, version, os, and probe_mode.
func RegisterInstanceInfo(registry *prometheus.Registry, instanceName, version, probeMode string) error {
	info := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: instanceInfoMetricName,
			Help: instanceInfoHelp,
		},
		[]string{"instance_name", "version", "os", "probe_mode"},
	)
	info.WithLabelValues(instanceName, version, runtime.GOOS, probeMode).Set(1)
	return registry.Register(info)
}
