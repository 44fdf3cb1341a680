// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/telekom/hopscope/internal/traceroute"
	"github.com/telekom/hopscope/pkg/session"
)

var _ Sink = (*TableSink)(nil)

// TableSink renders completed traces as tables.
type TableSink struct {
	w io.Writer
}

// NewTableSink returns a sink writing tables to w.
func NewTableSink(w io.Writer) *TableSink {
	return &TableSink{w: w}
}

// Handle writes the hop table of the result and a comparison of the result
// window for completed traces and the error for failed ones.
func (s *TableSink) Handle(_ context.Context, ev session.Event) error {
	switch ev.Kind {
	case session.EventCompleted:
		if ev.Result == nil {
			return nil
		}
		if err := s.writeHops(ev.Result); err != nil {
			return err
		}
		return s.writeComparison(ev.Group, ev.Window)
	case session.EventFailed:
		_, err := fmt.Fprintf(s.w, "Error: %s\n", ev.Error)
		return err
	default:
		return nil
	}
}

func (s *TableSink) writeHops(res *traceroute.Result) error {
	fmt.Fprintf(s.w, "\nTraceroute to %s\n", res.Destination)
	tw := tabwriter.NewWriter(s.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Hop\tIP\tHostname\tAvg RTT (ms)")
	for _, h := range res.Hops {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", h.Number, orDash(h.Address), orDash(h.Hostname), FormatRTT(h))
	}
	return tw.Flush()
}

// writeComparison renders the average round trip time of every hop across
// the runs of the window, oldest first. Rows are keyed by hop number, so a
// hop missing from a run shows as "-" in its column.
func (s *TableSink) writeComparison(group string, window []traceroute.Result) error {
	if len(window) == 0 {
		return nil
	}

	header := []string{"Hop"}
	runs := make([]map[int]traceroute.Hop, len(window))
	var numbers []int
	for i, r := range window {
		header = append(header, fmt.Sprintf("Run %d (%s)", i+1, r.Timestamp.Format("15:04:05")))
		runs[i] = make(map[int]traceroute.Hop, len(r.Hops))
		for _, h := range r.Hops {
			if _, seen := runs[i][h.Number]; seen {
				continue
			}
			runs[i][h.Number] = h
			numbers = append(numbers, h.Number)
		}
	}
	slices.Sort(numbers)
	numbers = slices.Compact(numbers)

	fmt.Fprintf(s.w, "\nComparison of the last %d runs for %s\n", len(window), group)
	tw := tabwriter.NewWriter(s.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, n := range numbers {
		row := []string{strconv.Itoa(n)}
		for _, run := range runs {
			if h, ok := run[n]; ok {
				row = append(row, FormatRTT(h))
				continue
			}
			row = append(row, "-")
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
