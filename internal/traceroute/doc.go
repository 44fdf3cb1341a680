// Package traceroute probes the network path to a destination and turns the
// textual output of a probe into structured hop records.
//
// A [Runner] produces the raw probe output. [NewCommandRunner] shells out to
// the traceroute utility of the host (tracert on Windows, traceroute -I
// elsewhere), [NewICMPRunner] sends ICMP echo requests with increasing TTL on
// its own and renders the same layout. Failures of either runner are
// reported as [*ProbeError] classified by an [ErrorCode].
//
// [Parse] tokenizes the raw output line by line and returns one [Hop] per
// hop line, in output order. Lines that are not hop lines are skipped.
//
// Typical usage:
//
//	runner := traceroute.NewCommandRunner()
//	raw, err := runner.Run(ctx, "example.com")
//	if err != nil {
//		// err is a *traceroute.ProbeError
//	}
//	for _, hop := range traceroute.Parse(raw) {
//		avg, ok := hop.AverageRTT()
//		// ok is false if no probe of the hop got a reply
//	}
package traceroute
