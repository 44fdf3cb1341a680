// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package test

// Captured outputs of traceroute utilities used across tests.
const (
	// LinuxICMPOutput is the output of `traceroute -I example.com` with name resolution.
	LinuxICMPOutput = `traceroute to example.com (93.184.216.34), 30 hops max, 60 byte packets
 1  _gateway (192.168.1.1)  0.512 ms  0.447 ms  0.430 ms
 2  100.64.0.1 (100.64.0.1)  8.211 ms  8.190 ms  8.402 ms
 3  * * *
 4  ae-1.core.example.net (203.0.113.9)  11.902 ms *  12.044 ms
 5  edge.example.com (93.184.216.34)  12.300 ms  11.800 ms  13.000 ms
`

	// LinuxNumericOutput is the output of `traceroute -I -n example.com` with hostnames appended.
	LinuxNumericOutput = `traceroute to example.com (93.184.216.34), 30 hops max, 60 byte packets
 1  192.168.1.1  0.512 ms  0.447 ms  0.430 ms
 2  *  100.64.0.1  8.190 ms  8.402 ms
 3  93.184.216.34  edge.example.com  12.3 ms  11.8 ms  13.0 ms
 4  *  *  *
`

	// MacOSOutput is the output of `traceroute -I example.com` on macOS.
	MacOSOutput = `traceroute to example.com (93.184.216.34), 64 hops max, 72 byte packets
 1  router.lan (192.168.178.1)  3.221 ms  2.904 ms  2.871 ms
 2  * * *
 3  edge.example.com (93.184.216.34)  14.104 ms  13.877 ms  13.912 ms
`

	// WindowsOutput is the output of `tracert example.com`.
	WindowsOutput = "\r\nTracing route to example.com [93.184.216.34]\r\n" +
		"over a maximum of 30 hops:\r\n\r\n" +
		"  1    <1 ms    <1 ms    <1 ms  192.168.1.1\r\n" +
		"  2     9 ms     8 ms    10 ms  isp-gw.example.net [100.64.0.1]\r\n" +
		"  3     *        *        *     Request timed out.\r\n" +
		"  4    12 ms    11 ms    13 ms  edge.example.com [93.184.216.34]\r\n" +
		"\r\nTrace complete.\r\n"

	// UnreachableOutput is the output of a traceroute utility that could not resolve its destination.
	UnreachableOutput = "unreachable.example: Name or service not known\nCannot handle \"host\" cmdline arg `unreachable.example' on position 1 (argc 2)\n"
)
