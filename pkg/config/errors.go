// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import "errors"

var (
	// ErrInvalidName is returned when the instance name is invalid
	ErrInvalidName = errors.New("invalid instance name")
	// ErrInvalidInterval is returned when the trace interval is invalid
	ErrInvalidInterval = errors.New("invalid trace interval")
	// ErrInvalidProbeMode is returned when the probe mode is unknown
	ErrInvalidProbeMode = errors.New("invalid probe mode")
	// ErrInvalidMaxHops is returned when the maximum number of hops is out of range
	ErrInvalidMaxHops = errors.New("invalid maximum number of hops")
	// ErrInvalidOutputFormat is returned when the output format is unknown
	ErrInvalidOutputFormat = errors.New("invalid output format")
	// ErrInvalidLoaderInterval is returned when the destinations file reload interval is invalid
	ErrInvalidLoaderInterval = errors.New("invalid destinations file reload interval")
)
