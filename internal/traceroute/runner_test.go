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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/hopscope/test"
)

// helperEnv switches the test binary into a fake traceroute utility.
const helperEnv = "HOPSCOPE_WANT_HELPER_PROCESS"

// fakeCommand returns a command factory that re-executes the test binary
// as a fake traceroute utility printing the given output and exiting with the code.
func fakeCommand(output string, code int) commandFunc {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := append([]string{"-test.run=TestHelperProcess", "--", name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...) // #nosec G204 // test binary only
		cmd.Env = append(os.Environ(),
			helperEnv+"=1",
			"HELPER_OUTPUT="+output,
			fmt.Sprintf("HELPER_EXIT_CODE=%d", code),
		)
		return cmd
	}
}

// slowCommand returns a command factory whose fake utility prints a first
// hop and then hangs for the given duration.
func slowCommand(sleep time.Duration) commandFunc {
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cmd := fakeCommand(" 1  192.168.1.1  0.512 ms  0.447 ms  0.430 ms\n", 0)(ctx, name, args...)
		cmd.Env = append(cmd.Env, "HELPER_SLEEP="+sleep.String())
		return cmd
	}
}

// TestHelperProcess is not a real test. It acts as the traceroute utility for [fakeCommand].
func TestHelperProcess(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		return
	}
	_, _ = fmt.Fprint(os.Stdout, os.Getenv("HELPER_OUTPUT"))
	if d, err := time.ParseDuration(os.Getenv("HELPER_SLEEP")); err == nil {
		time.Sleep(d)
	}
	code := 0
	_, _ = fmt.Sscanf(os.Getenv("HELPER_EXIT_CODE"), "%d", &code)
	os.Exit(code) //nolint:revive // helper process
}

func Test_commandFor(t *testing.T) {
	tests := []struct {
		goos     string
		wantName string
		wantArgs []string
	}{
		{goos: "windows", wantName: "tracert", wantArgs: []string{"example.com"}},
		{goos: "linux", wantName: "traceroute", wantArgs: []string{"-I", "example.com"}},
		{goos: "darwin", wantName: "traceroute", wantArgs: []string{"-I", "example.com"}},
		{goos: "freebsd", wantName: "traceroute", wantArgs: []string{"-I", "example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			name, args := commandFor(tt.goos, "example.com")
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestCommandRunner_Run(t *testing.T) {
	tests := []struct {
		name        string
		goos        string
		destination string
		output      string
		exitCode    int
		wantOut     string
		wantCode    ErrorCode
	}{
		{
			name:        "success",
			goos:        "linux",
			destination: "example.com",
			output:      test.LinuxICMPOutput,
			wantOut:     test.LinuxICMPOutput,
		},
		{
			name:        "success on windows",
			goos:        "windows",
			destination: "example.com",
			output:      test.WindowsOutput,
			wantOut:     test.WindowsOutput,
		},
		{
			name:        "non-zero exit",
			goos:        "linux",
			destination: "unreachable.example",
			output:      test.UnreachableOutput,
			exitCode:    1,
			wantOut:     test.UnreachableOutput,
			wantCode:    ErrCodeExit,
		},
		{
			name:        "destination looks like a flag",
			goos:        "linux",
			destination: "-f",
			wantCode:    ErrCodeInvalid,
		},
		{
			name:        "destination with whitespace",
			goos:        "linux",
			destination: "example.com -q 9",
			wantCode:    ErrCodeInvalid,
		},
		{
			name:     "empty destination",
			goos:     "linux",
			wantCode: ErrCodeInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &commandRunner{
				goos:    func() string { return tt.goos },
				command: fakeCommand(tt.output, tt.exitCode),
			}

			out, err := r.Run(t.Context(), tt.destination)
			assert.Equal(t, tt.wantOut, out)
			if tt.wantCode == "" {
				require.NoError(t, err)
				return
			}

			pErr, ok := IsProbeError(err)
			require.True(t, ok, "expected a ProbeError, got %T", err)
			assert.Equal(t, tt.wantCode, pErr.Code)
			assert.Equal(t, tt.destination, pErr.Destination)
			assert.Equal(t, tt.wantOut, pErr.Output)
		})
	}
}

func TestCommandRunner_Run_MissingBinary(t *testing.T) {
	r := &commandRunner{
		goos: func() string { return "linux" },
		command: func(ctx context.Context, _ string, args ...string) *exec.Cmd {
			return exec.CommandContext(ctx, "hopscope-no-such-traceroute", args...)
		},
	}

	_, err := r.Run(t.Context(), "example.com")
	pErr, ok := IsProbeError(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, pErr.Code)
	assert.True(t, errors.Is(err, exec.ErrNotFound))
}

func TestCommandRunner_Run_Integration(t *testing.T) {
	test.MarkAsLong(t)
	if _, err := exec.LookPath("traceroute"); err != nil {
		t.Skip("traceroute utility not installed")
	}

	out, err := NewCommandRunner().Run(t.Context(), "127.0.0.1")
	if err != nil {
		t.Skipf("traceroute not usable in this environment: %v", err)
	}
	hops := Parse(out)
	require.NotEmpty(t, hops)
	assert.Equal(t, "127.0.0.1", hops[len(hops)-1].Address)
}

func Test_classifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{name: "nil", err: nil, want: ""},
		{name: "invalid destination", err: fmt.Errorf("%w: x", ErrInvalidDestination), want: ErrCodeInvalid},
		{name: "not found", err: &exec.Error{Name: "traceroute", Err: exec.ErrNotFound}, want: ErrCodeNotFound},
		{name: "icmp not available", err: errICMPNotAvailable, want: ErrCodeDenied},
		{name: "permission", err: os.ErrPermission, want: ErrCodeDenied},
		{name: "deadline", err: context.DeadlineExceeded, want: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, want: ErrCodeCanceled},
		{name: "unknown", err: errors.New("boom"), want: ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyError(tt.err))
		})
	}
}

func TestCommandRunner_Run_DeadlineExceeded(t *testing.T) {
	r := &commandRunner{
		goos:    func() string { return "linux" },
		command: slowCommand(5 * time.Second),
	}

	ctx, cancel := context.WithTimeout(t.Context(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := r.Run(ctx, "example.com")
	assert.Less(t, time.Since(start), 4*time.Second, "the utility must be killed at the deadline")

	pErr, ok := IsProbeError(err)
	require.True(t, ok, "expected a ProbeError, got %T", err)
	assert.Equal(t, ErrCodeTimeout, pErr.Code)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	var exitErr *exec.ExitError
	assert.ErrorAs(t, err, &exitErr, "the exit error of the killed utility is kept")
}

func TestCommandRunner_Run_Canceled(t *testing.T) {
	r := &commandRunner{
		goos:    func() string { return "linux" },
		command: slowCommand(5 * time.Second),
	}

	ctx, cancel := context.WithCancel(t.Context())
	time.AfterFunc(200*time.Millisecond, cancel)

	_, err := r.Run(ctx, "example.com")
	pErr, ok := IsProbeError(err)
	require.True(t, ok, "expected a ProbeError, got %T", err)
	assert.Equal(t, ErrCodeCanceled, pErr.Code)
}
