// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SamplesPerHop is the number of round trip samples recorded for every hop.
const SamplesPerHop = 3

// Result is the outcome of a single traceroute run against one destination.
// A Result must not be modified once it has been handed out.
type Result struct {
	// ID uniquely identifies the run.
	ID string `json:"id" yaml:"id"`
	// Destination is the traced destination as it was configured.
	Destination string `json:"destination" yaml:"destination"`
	// Hops are the parsed hop records in the order the probe reported them.
	Hops []Hop `json:"hops" yaml:"hops"`
	// Timestamp is the time the run was started.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	// Duration is the time the run took, including parsing.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Hop is a single router hop on the path to a destination.
type Hop struct {
	// Number is the 1-based index of the hop.
	Number int `json:"hop" yaml:"hop"`
	// Address is the IP literal of the responding router.
	// It is empty if no probe got a reply.
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	// Hostname is the resolved name of the router.
	// It is empty if no name was reported or if the name equals the address.
	Hostname string `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	// Samples are the round trip times in milliseconds.
	// A nil sample is a probe that timed out.
	Samples []*float64 `json:"rtt" yaml:"rtt"`
}

// AverageRTT returns the mean of all present samples.
// The second return value is false if the hop has no samples at all.
func (h Hop) AverageRTT() (float64, bool) {
	var (
		sum float64
		n   int
	)
	for _, s := range h.Samples {
		if s == nil {
			continue
		}
		sum += *s
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// TimedOut reports whether no probe for this hop got a reply.
func (h Hop) TimedOut() bool {
	return h.Address == ""
}

func (h Hop) String() string {
	name := h.Hostname
	if name == "" {
		name = h.Address
	}
	if name == "" {
		name = "*"
	}

	samples := make([]string, 0, len(h.Samples))
	for _, s := range h.Samples {
		if s == nil {
			samples = append(samples, "*")
			continue
		}
		samples = append(samples, strconv.FormatFloat(*s, 'f', 3, 64)+" ms")
	}

	return fmt.Sprintf("%-2d  %-45.45s  %s", h.Number, name, strings.Join(samples, "  "))
}

// LastHop returns the final hop of the result.
// The second return value is false if the result holds no hops.
func (r Result) LastHop() (Hop, bool) {
	if len(r.Hops) == 0 {
		return Hop{}, false
	}
	return r.Hops[len(r.Hops)-1], true
}

// Sample returns a pointer to the given round trip time.
// It is a convenience to build [Hop] samples.
func Sample(ms float64) *float64 {
	return &ms
}
