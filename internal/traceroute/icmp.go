// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"net"
	"time"

	"golang.org/x/net/icmp"
)

// icmpConn is the part of an ICMP packet connection the native prober needs.
type icmpConn interface {
	// SetTTL sets the time to live of outgoing packets.
	SetTTL(ttl int) error
	WriteTo(b []byte, dst net.Addr) (int, error)
	ReadFrom(b []byte) (int, net.Addr, error)
	SetReadDeadline(t time.Time) error
	Close() error
}

// echoReply is a reply to one of our echo requests.
type echoReply struct {
	// addr is the address of the device (typically a router)
	// that answered our probe.
	addr string
	// rtt is the time between sending the probe and receiving the reply.
	rtt time.Duration
	// reached indicates whether the reply ends the trace. This is true for echo
	// replies of the destination and for destination unreachable messages.
	reached bool
}

// rawConn is an [icmpConn] backed by a privileged raw ICMP socket.
type rawConn struct {
	*icmp.PacketConn
}

func (c *rawConn) SetTTL(ttl int) error {
	return c.IPv4PacketConn().SetTTL(ttl)
}

const (
	// protocolICMP is the IANA protocol number of ICMP for IPv4.
	protocolICMP = 1
	// mtuSize is the read buffer size for incoming ICMP messages.
	mtuSize = 1500
	// icmpHeaderLengthMask is the mask to extract the IP header length
	// from the first byte of a quoted IPv4 header.
	icmpHeaderLengthMask = 0x0F
	// byteMultiplier is used to convert the header length from 4-byte words to bytes.
	byteMultiplier = 4
	// echoHeaderLen is the length of the quoted echo request header: type, code, checksum, id and sequence.
	echoHeaderLen = 8
)
