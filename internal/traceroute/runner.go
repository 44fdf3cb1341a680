// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"unicode"

	"github.com/telekom/hopscope/internal/logger"
)

var (
	_ Runner = (*commandRunner)(nil)
	_ Runner = (*icmpRunner)(nil)
)

// Runner is able to probe the path to a single destination.
//
//go:generate go tool moq -out runner_moq.go . Runner
type Runner interface {
	// Run probes the path to the destination and returns the raw, human readable probe output.
	// Failures are returned as [*ProbeError].
	Run(ctx context.Context, destination string) (string, error)
}

// commandFunc creates the command to execute.
// It matches the signature of [exec.CommandContext].
type commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

// commandRunner runs the traceroute utility of the host operating system.
type commandRunner struct {
	// goos returns the operating system the command is selected for.
	goos func() string
	// command creates the process to run.
	command commandFunc
}

// NewCommandRunner returns a [Runner] that shells out to the
// platform traceroute utility.
func NewCommandRunner() Runner {
	return &commandRunner{
		goos:    func() string { return runtime.GOOS },
		command: exec.CommandContext,
	}
}

// Run executes the traceroute utility for the destination and waits for it to finish.
// The combined output is returned on success. A launch failure or a non-zero
// exit status is returned as [*ProbeError] together with the captured output.
func (r *commandRunner) Run(ctx context.Context, destination string) (string, error) {
	log := logger.FromContext(ctx).With("destination", destination)

	name, args := commandFor(r.goos(), destination)
	cmdline := strings.Join(append([]string{name}, args...), " ")
	if err := validateDestination(destination); err != nil {
		return "", newProbeError(destination, cmdline, "", err)
	}

	log.DebugContext(ctx, "Running traceroute command", "command", cmdline)
	out, err := r.command(ctx, name, args...).CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// the killed child reports an exit error, the context knows why
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		pErr := newProbeError(destination, cmdline, string(out), err)
		log.WarnContext(ctx, "Traceroute command failed", "command", cmdline, "code", pErr.Code, "error", err)
		return string(out), pErr
	}

	log.DebugContext(ctx, "Traceroute command finished", "bytes", len(out))
	return string(out), nil
}

// commandFor returns the traceroute command and its arguments for the given
// operating system. Windows ships tracert, every other platform uses ICMP echo
// probes of the traceroute utility.
func commandFor(goos, destination string) (name string, args []string) {
	if goos == "windows" {
		return "tracert", []string{destination}
	}
	return "traceroute", []string{"-I", destination}
}

// validateDestination rejects destinations that would be interpreted as
// flags or split into several arguments by the traceroute utility.
func validateDestination(destination string) error {
	if destination == "" {
		return fmt.Errorf("%w: empty destination", ErrInvalidDestination)
	}
	if strings.HasPrefix(destination, "-") {
		return fmt.Errorf("%w: %q must not start with '-'", ErrInvalidDestination, destination)
	}
	if strings.IndexFunc(destination, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: %q must not contain whitespace", ErrInvalidDestination, destination)
	}
	return nil
}
