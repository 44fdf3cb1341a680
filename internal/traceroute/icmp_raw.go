// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/telekom/hopscope/internal/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

const (
	// DefaultMaxHops is the default maximum TTL of the native prober.
	DefaultMaxHops = 30
	// DefaultProbeTimeout is the default time to wait for a single reply.
	DefaultProbeTimeout = 3 * time.Second
)

// echoPayload is sent with every echo request.
var echoPayload = []byte("hopscope")

// echoIDs hands out echo identifiers so that concurrent runs sharing the raw
// socket stream can tell their replies apart.
var echoIDs atomic.Uint32

// Options configures the native ICMP prober.
type Options struct {
	// MaxHops is the maximum TTL to probe.
	MaxHops int `json:"maxHops" yaml:"maxHops" mapstructure:"maxHops"`
	// Timeout is the time to wait for the reply to a single probe.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// NoResolve disables reverse DNS lookups of hop addresses.
	NoResolve bool `json:"noResolve" yaml:"noResolve" mapstructure:"noResolve"`
}

func (o Options) withDefaults() Options {
	if o.MaxHops <= 0 {
		o.MaxHops = DefaultMaxHops
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultProbeTimeout
	}
	return o
}

// icmpRunner probes the path with ICMP echo requests of increasing TTL.
type icmpRunner struct {
	opts     Options
	listen   func() (icmpConn, error)
	lookupIP func(ctx context.Context, network, host string) ([]net.IP, error)
	resolver *nameResolver
	tracer   trace.Tracer
}

// NewICMPRunner returns a [Runner] that traces the path without an external
// utility. It needs a raw ICMP socket and thus NET_RAW capabilities.
// The output uses the layout of the POSIX traceroute utility so that it can be
// handed to [Parse] like the output of [NewCommandRunner].
func NewICMPRunner(opts Options) Runner {
	r := &icmpRunner{
		opts:     opts.withDefaults(),
		listen:   listenICMP,
		lookupIP: net.DefaultResolver.LookupIP,
		tracer:   otel.Tracer("traceroute.icmp"),
	}
	if !opts.NoResolve {
		r.resolver = newNameResolver()
	}
	return r
}

// listenICMP opens a raw ICMP socket. Missing privileges are reported as
// [errICMPNotAvailable].
func listenICMP() (icmpConn, error) {
	conn, err := icmp.ListenPacket("ip4:icmp", "0.0.0.0")
	if err == nil {
		return &rawConn{PacketConn: conn}, nil
	}
	if errors.Is(err, os.ErrPermission) || isPermissionError(err) {
		return nil, fmt.Errorf("%w: %w", errICMPNotAvailable, err)
	}
	return nil, fmt.Errorf("failed to create ICMP listener: %w", err)
}

// Run traces the path to the destination. Every hop is probed [SamplesPerHop]
// times and the trace stops once the destination answers or MaxHops is reached.
func (r *icmpRunner) Run(ctx context.Context, destination string) (string, error) {
	ctx, span := r.tracer.Start(ctx, "traceroute.icmp", trace.WithAttributes(
		attribute.String("traceroute.destination", destination),
		attribute.Int("traceroute.max_hops", r.opts.MaxHops),
	))
	defer span.End()

	command := "icmp " + destination
	if err := validateDestination(destination); err != nil {
		return "", newProbeError(destination, command, "", err)
	}

	dst, err := r.resolveDestination(ctx, destination)
	if err != nil {
		return "", newProbeError(destination, command, "", wrapError(ctx, err, "failed to resolve destination %s", destination))
	}

	conn, err := r.listen()
	if err != nil {
		return "", newProbeError(destination, command, "", wrapError(ctx, err, "failed to open ICMP socket for %s", destination))
	}
	defer func() {
		if cErr := conn.Close(); cErr != nil {
			logger.FromContext(ctx).WarnContext(ctx, "Failed to close ICMP socket", "error", cErr)
		}
	}()

	var out strings.Builder
	fmt.Fprintf(&out, "traceroute to %s (%s), %d hops max\n", destination, dst.IP, r.opts.MaxHops)

	id := int((echoIDs.Add(1) + uint32(os.Getpid())) & 0xffff) // #nosec G115 // masked to 16 bit
	seq := 0
	hops := make([]Hop, 0, r.opts.MaxHops)
	for ttl := 1; ttl <= r.opts.MaxHops; ttl++ {
		if err := ctx.Err(); err != nil {
			return out.String(), newProbeError(destination, command, out.String(), err)
		}
		if err := conn.SetTTL(ttl); err != nil {
			return out.String(), newProbeError(destination, command, out.String(), wrapError(ctx, err, "failed to set TTL %d", ttl))
		}

		hop := Hop{Number: ttl, Samples: make([]*float64, 0, SamplesPerHop)}
		reached := false
		for range SamplesPerHop {
			seq++
			reply, pErr := r.probe(ctx, conn, dst, id, seq)
			if pErr != nil {
				return out.String(), newProbeError(destination, command, out.String(), wrapError(ctx, pErr, "failed to probe hop %d", ttl))
			}
			if reply == nil {
				hop.Samples = append(hop.Samples, nil)
				continue
			}
			if hop.Address == "" {
				hop.Address = reply.addr
			}
			rtt := float64(reply.rtt.Microseconds()) / 1000
			hop.Samples = append(hop.Samples, &rtt)
			reached = reached || reply.reached
		}

		if r.resolver != nil {
			hop.Hostname = r.resolver.Lookup(ctx, hop.Address)
		}
		hops = append(hops, hop)
		out.WriteString(formatHopLine(hop))
		out.WriteByte('\n')
		if reached {
			break
		}
	}

	logHops(ctx, hops)
	span.SetAttributes(attribute.Int("traceroute.hops", len(hops)))
	return out.String(), nil
}

// resolveDestination returns the IPv4 address of the destination.
func (r *icmpRunner) resolveDestination(ctx context.Context, destination string) (*net.IPAddr, error) {
	ips, err := r.lookupIP(ctx, "ip4", destination)
	if err != nil {
		return nil, err
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("no IPv4 address found for %s", destination)
	}
	return &net.IPAddr{IP: ips[0]}, nil
}

// probe sends a single echo request and waits for the matching reply.
// A nil reply without error means the probe timed out.
func (r *icmpRunner) probe(ctx context.Context, conn icmpConn, dst *net.IPAddr, id, seq int) (*echoReply, error) {
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{ID: id, Seq: seq, Data: echoPayload},
	}
	wb, err := msg.Marshal(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal echo request: %w", err)
	}

	start := time.Now()
	if _, err = conn.WriteTo(wb, dst); err != nil {
		return nil, fmt.Errorf("failed to send echo request: %w", err)
	}

	deadline := start.Add(r.opts.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err = conn.SetReadDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to set read deadline: %w", err)
	}

	buf := make([]byte, mtuSize)
	for {
		n, peer, rErr := conn.ReadFrom(buf)
		if rErr != nil {
			var nErr net.Error
			if errors.As(rErr, &nErr) && nErr.Timeout() {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to read from ICMP socket: %w", rErr)
		}

		reply, ok := matchReply(buf[:n], peer, id, seq)
		if !ok {
			continue
		}
		reply.rtt = time.Since(start)
		return reply, nil
	}
}

// matchReply parses an ICMP message and reports whether it answers the echo
// request with the given id and sequence number.
func matchReply(b []byte, peer net.Addr, id, seq int) (*echoReply, bool) {
	msg, err := icmp.ParseMessage(protocolICMP, b)
	if err != nil {
		return nil, false
	}

	addr := ""
	if ip := ipFromAddr(peer); ip != nil {
		addr = ip.String()
	}

	var quoted []byte
	reached := false
	switch msg.Type {
	case ipv4.ICMPTypeEchoReply:
		echo, ok := msg.Body.(*icmp.Echo)
		if !ok || echo.ID != id || echo.Seq != seq {
			return nil, false
		}
		return &echoReply{addr: addr, reached: true}, true
	case ipv4.ICMPTypeTimeExceeded:
		body, ok := msg.Body.(*icmp.TimeExceeded)
		if !ok {
			return nil, false
		}
		quoted = body.Data
	case ipv4.ICMPTypeDestinationUnreachable:
		body, ok := msg.Body.(*icmp.DstUnreach)
		if !ok {
			return nil, false
		}
		quoted = body.Data
		reached = true
	default:
		return nil, false
	}

	// The quoted datagram starts with the original IPv4 header followed by
	// the first bytes of our echo request.
	if len(quoted) == 0 {
		return nil, false
	}
	headerLen := int(quoted[0]&icmpHeaderLengthMask) * byteMultiplier
	if len(quoted) < headerLen+echoHeaderLen {
		return nil, false
	}
	echo := quoted[headerLen:]
	if echo[0] != byte(ipv4.ICMPTypeEcho) {
		return nil, false
	}
	gotID := int(binary.BigEndian.Uint16(echo[4:6]))
	gotSeq := int(binary.BigEndian.Uint16(echo[6:8]))
	if gotID != id || gotSeq != seq&0xffff {
		return nil, false
	}
	return &echoReply{addr: addr, reached: reached}, true
}

// formatHopLine renders the hop in the layout of the POSIX traceroute utility.
func formatHopLine(h Hop) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%2d  ", h.Number)
	switch {
	case h.Address == "":
	case h.Hostname != "":
		fmt.Fprintf(&b, "%s (%s)  ", h.Hostname, h.Address)
	default:
		fmt.Fprintf(&b, "%s  ", h.Address)
	}

	parts := make([]string, 0, len(h.Samples))
	for _, s := range h.Samples {
		if s == nil {
			parts = append(parts, "*")
			continue
		}
		parts = append(parts, strconv.FormatFloat(*s, 'f', 3, 64)+" ms")
	}
	b.WriteString(strings.Join(parts, "  "))
	return strings.TrimRight(b.String(), " ")
}
