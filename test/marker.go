// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package test provides shared helpers and captured probe outputs for tests.
package test

import "testing"

// MarkAsLong marks a test that depends on the host environment, e.g. a real
// network or an installed traceroute utility. It is skipped in short mode.
func MarkAsLong(t testing.TB) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping long running test in short mode")
	}
}

// MarkAsShort marks a test as safe to run in short mode.
func MarkAsShort(t testing.TB) {
	t.Helper()
	t.Log("running short test")
}
