// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package pkg contains metadata about hopscope.
package pkg

// Version is the current version of hopscope.
// It is set by the main package from the build time version.
var Version string
