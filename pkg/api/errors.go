// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAddress is returned if the listening address cannot be served.
	ErrInvalidAddress = errors.New("invalid api listening address")
	// ErrInvalidTLSConfig is returned if TLS is enabled without certificate or key.
	ErrInvalidTLSConfig = errors.New("invalid api tls configuration")
)

// ErrCreateOpenapiSchema is returned if the openapi schema of a type cannot be generated.
type ErrCreateOpenapiSchema struct {
	Name string
	Err  error
}

func (e ErrCreateOpenapiSchema) Error() string {
	return fmt.Sprintf("failed to get schema for %s: %v", e.Name, e.Err)
}

func (e ErrCreateOpenapiSchema) Unwrap() error {
	return e.Err
}
