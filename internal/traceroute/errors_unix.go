// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

//go:build !windows

package traceroute

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isPermissionError reports whether the error is caused by missing privileges,
// e.g. opening a raw socket without NET_RAW.
func isPermissionError(err error) bool {
	return errors.Is(err, unix.EPERM) || errors.Is(err, unix.EACCES)
}
