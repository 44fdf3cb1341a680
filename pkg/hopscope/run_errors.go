// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package hopscope

import (
	"errors"
	"fmt"
)

// ErrFinalShutdown is returned by [Hopscope.Run] once all components are shut down.
var ErrFinalShutdown = errors.New("hopscope was shut down")

// ErrShutdown holds any errors that may
// have occurred during shutdown of hopscope
type ErrShutdown struct {
	errAPI     error
	errReports error
	errMetrics error
}

// HasError returns true if any of the errors are set
func (e ErrShutdown) HasError() bool {
	return e.errAPI != nil || e.errReports != nil || e.errMetrics != nil
}

func (e ErrShutdown) Error() string {
	return errors.Join(e.errAPI, e.errReports, e.errMetrics).Error()
}

// ErrTraceFailed is returned by [Hopscope.Once] if at least one destination could not be traced.
type ErrTraceFailed struct {
	Failed []string
	Total  int
}

func (e ErrTraceFailed) Error() string {
	return fmt.Sprintf("failed to trace %d of %d destinations: %v", len(e.Failed), e.Total, e.Failed)
}
