// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// errICMPNotAvailable is returned when ICMP is not available due to lack of NET_RAW capabilities.
// This typically occurs when the process does not have the necessary permissions to create an ICMP socket
// or when running in an environment where ICMP is restricted (e.g., some containerized environments).
var errICMPNotAvailable = errors.New("no NET_RAW capabilities, ICMP not available")

// ErrInvalidDestination is returned for destinations that cannot be passed to a probe.
var ErrInvalidDestination = errors.New("invalid destination")

// ErrorCode classifies why a probe failed.
type ErrorCode string

const (
	ErrCodeInvalid  ErrorCode = "INVALID"
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	ErrCodeDenied   ErrorCode = "DENIED"
	ErrCodeTimeout  ErrorCode = "TIMEOUT"
	ErrCodeCanceled ErrorCode = "CANCELED"
	ErrCodeExit     ErrorCode = "EXIT"
	ErrCodeUnknown  ErrorCode = "UNKNOWN"
)

// ProbeError is returned by a [Runner] when a probe could not run or did not succeed.
// It is a recoverable condition scoped to a single destination.
type ProbeError struct {
	// Destination is the destination that was probed.
	Destination string `json:"destination" yaml:"destination"`
	// Command is the command line or prober that was used.
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
	// Output is the output captured before the failure, if any.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
	// Code classifies the failure.
	Code ErrorCode `json:"code" yaml:"code"`
	// Err is the underlying error.
	Err error `json:"-" yaml:"-"`
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("traceroute to %s failed (%s): %v", e.Destination, e.Code, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// newProbeError creates a [ProbeError] and classifies the given error.
func newProbeError(destination, command, output string, err error) *ProbeError {
	return &ProbeError{
		Destination: destination,
		Command:     command,
		Output:      output,
		Code:        classifyError(err),
		Err:         err,
	}
}

// classifyError maps an error returned while probing to an [ErrorCode].
func classifyError(err error) ErrorCode {
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidDestination):
		return ErrCodeInvalid
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, os.ErrNotExist):
		return ErrCodeNotFound
	case errors.Is(err, errICMPNotAvailable), errors.Is(err, os.ErrPermission), isPermissionError(err):
		return ErrCodeDenied
	case errors.Is(err, context.DeadlineExceeded):
		return ErrCodeTimeout
	case errors.Is(err, context.Canceled):
		return ErrCodeCanceled
	case errors.As(err, &exitErr):
		return ErrCodeExit
	default:
		return ErrCodeUnknown
	}
}

// IsProbeError reports whether err is or wraps a [ProbeError] and returns it.
func IsProbeError(err error) (*ProbeError, bool) {
	var pe *ProbeError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
