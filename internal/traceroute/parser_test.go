// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/hopscope/test"
)

func samples(values ...*float64) []*float64 {
	return values
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   Hop
		wantOk bool
	}{
		{
			name: "numeric layout with hostname",
			line: " 3  93.184.216.34  edge.example.com  12.3 ms  11.8 ms  13.0 ms",
			want: Hop{
				Number:   3,
				Address:  "93.184.216.34",
				Hostname: "edge.example.com",
				Samples:  samples(Sample(12.3), Sample(11.8), Sample(13.0)),
			},
			wantOk: true,
		},
		{
			name:   "all probes timed out",
			line:   " 5  *  *  *",
			want:   Hop{Number: 5, Samples: samples(nil, nil, nil)},
			wantOk: true,
		},
		{
			name: "hostname equal to address is dropped",
			line: " 2  10.0.0.1  10.0.0.1  1.0 ms  1.1 ms  1.2 ms",
			want: Hop{
				Number:  2,
				Address: "10.0.0.1",
				Samples: samples(Sample(1.0), Sample(1.1), Sample(1.2)),
			},
			wantOk: true,
		},
		{
			name: "hostname before address in parentheses",
			line: " 1  _gateway (192.168.1.1)  0.512 ms  0.447 ms  0.430 ms",
			want: Hop{
				Number:   1,
				Address:  "192.168.1.1",
				Hostname: "_gateway",
				Samples:  samples(Sample(0.512), Sample(0.447), Sample(0.430)),
			},
			wantOk: true,
		},
		{
			name: "unresolved address repeated in parentheses",
			line: " 2  100.64.0.1 (100.64.0.1)  8.211 ms  8.190 ms  8.402 ms",
			want: Hop{
				Number:  2,
				Address: "100.64.0.1",
				Samples: samples(Sample(8.211), Sample(8.190), Sample(8.402)),
			},
			wantOk: true,
		},
		{
			name: "first probe timed out",
			line: " 4  *  10.0.0.1  12.3 ms  11.1 ms",
			want: Hop{
				Number:  4,
				Address: "10.0.0.1",
				Samples: samples(nil, Sample(12.3), Sample(11.1)),
			},
			wantOk: true,
		},
		{
			name: "missing samples are padded",
			line: " 6  10.0.0.6  4.2 ms",
			want: Hop{
				Number:  6,
				Address: "10.0.0.6",
				Samples: samples(Sample(4.2), nil, nil),
			},
			wantOk: true,
		},
		{
			name: "malformed round trip time is absent",
			line: " 7  10.0.0.7  1.2.3 ms  4.5 ms  4.6 ms",
			want: Hop{
				Number:  7,
				Address: "10.0.0.7",
				Samples: samples(nil, Sample(4.5), Sample(4.6)),
			},
			wantOk: true,
		},
		{
			name: "comma decimal separator and glued unit",
			line: " 8  10.0.0.8  4,5ms  4,6 ms  4.7ms",
			want: Hop{
				Number:  8,
				Address: "10.0.0.8",
				Samples: samples(Sample(4.5), Sample(4.6), Sample(4.7)),
			},
			wantOk: true,
		},
		{
			name: "multipath replies keep the first address",
			line: " 9  a.example (10.1.1.1)  5.1 ms b.example (10.1.1.2)  5.3 ms  5.0 ms",
			want: Hop{
				Number:   9,
				Address:  "10.1.1.1",
				Hostname: "a.example",
				Samples:  samples(Sample(5.1), Sample(5.3), Sample(5.0)),
			},
			wantOk: true,
		},
		{
			name: "more than three samples are capped",
			line: "10  10.0.0.10  1 ms  2 ms  3 ms  4 ms",
			want: Hop{
				Number:  10,
				Address: "10.0.0.10",
				Samples: samples(Sample(1), Sample(2), Sample(3)),
			},
			wantOk: true,
		},
		{
			name: "annotations are ignored",
			line: "11  10.0.0.11  1.5 ms !H  *  1.7 ms !H",
			want: Hop{
				Number:  11,
				Address: "10.0.0.11",
				Samples: samples(Sample(1.5), nil, Sample(1.7)),
			},
			wantOk: true,
		},
		{
			name: "windows layout",
			line: "  2     9 ms     8 ms    10 ms  isp-gw.example.net [100.64.0.1]",
			want: Hop{
				Number:   2,
				Address:  "100.64.0.1",
				Hostname: "isp-gw.example.net",
				Samples:  samples(Sample(9), Sample(8), Sample(10)),
			},
			wantOk: true,
		},
		{
			name: "windows sub millisecond replies",
			line: "  1    <1 ms    <1 ms    <1 ms  192.168.1.1",
			want: Hop{
				Number:  1,
				Address: "192.168.1.1",
				Samples: samples(Sample(1), Sample(1), Sample(1)),
			},
			wantOk: true,
		},
		{
			name:   "windows request timed out",
			line:   "  3     *        *        *     Request timed out.",
			want:   Hop{Number: 3, Samples: samples(nil, nil, nil)},
			wantOk: true,
		},
		{
			name: "ipv6 hop",
			line: " 1  2001:db8::1  0.8 ms  0.7 ms  0.9 ms",
			want: Hop{
				Number:  1,
				Address: "2001:db8::1",
				Samples: samples(Sample(0.8), Sample(0.7), Sample(0.9)),
			},
			wantOk: true,
		},
		{name: "posix header", line: "traceroute to example.com (93.184.216.34), 30 hops max, 60 byte packets"},
		{name: "windows header", line: "Tracing route to example.com [93.184.216.34]"},
		{name: "windows footer", line: "Trace complete."},
		{name: "blank line", line: "   "},
		{name: "hop index only", line: " 4"},
		{name: "hop index zero", line: " 0  10.0.0.1  1.0 ms"},
		{name: "non numeric index", line: " x  10.0.0.1  1.0 ms"},
		{name: "summary text", line: "30 hops max, 60 byte packets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			require.Equal(t, tt.wantOk, ok)
			if !ok {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseLine() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []Hop
	}{
		{
			name: "empty output",
			raw:  "",
			want: []Hop{},
		},
		{
			name: "no hop lines",
			raw:  test.UnreachableOutput,
			want: []Hop{},
		},
		{
			name: "linux with name resolution",
			raw:  test.LinuxICMPOutput,
			want: []Hop{
				{Number: 1, Address: "192.168.1.1", Hostname: "_gateway", Samples: samples(Sample(0.512), Sample(0.447), Sample(0.430))},
				{Number: 2, Address: "100.64.0.1", Samples: samples(Sample(8.211), Sample(8.190), Sample(8.402))},
				{Number: 3, Samples: samples(nil, nil, nil)},
				{Number: 4, Address: "203.0.113.9", Hostname: "ae-1.core.example.net", Samples: samples(Sample(11.902), nil, Sample(12.044))},
				{Number: 5, Address: "93.184.216.34", Hostname: "edge.example.com", Samples: samples(Sample(12.3), Sample(11.8), Sample(13.0))},
			},
		},
		{
			name: "linux numeric",
			raw:  test.LinuxNumericOutput,
			want: []Hop{
				{Number: 1, Address: "192.168.1.1", Samples: samples(Sample(0.512), Sample(0.447), Sample(0.430))},
				{Number: 2, Address: "100.64.0.1", Samples: samples(nil, Sample(8.190), Sample(8.402))},
				{Number: 3, Address: "93.184.216.34", Hostname: "edge.example.com", Samples: samples(Sample(12.3), Sample(11.8), Sample(13.0))},
				{Number: 4, Samples: samples(nil, nil, nil)},
			},
		},
		{
			name: "macos",
			raw:  test.MacOSOutput,
			want: []Hop{
				{Number: 1, Address: "192.168.178.1", Hostname: "router.lan", Samples: samples(Sample(3.221), Sample(2.904), Sample(2.871))},
				{Number: 2, Samples: samples(nil, nil, nil)},
				{Number: 3, Address: "93.184.216.34", Hostname: "edge.example.com", Samples: samples(Sample(14.104), Sample(13.877), Sample(13.912))},
			},
		},
		{
			name: "windows",
			raw:  test.WindowsOutput,
			want: []Hop{
				{Number: 1, Address: "192.168.1.1", Samples: samples(Sample(1), Sample(1), Sample(1))},
				{Number: 2, Address: "100.64.0.1", Hostname: "isp-gw.example.net", Samples: samples(Sample(9), Sample(8), Sample(10))},
				{Number: 3, Samples: samples(nil, nil, nil)},
				{Number: 4, Address: "93.184.216.34", Hostname: "edge.example.com", Samples: samples(Sample(12), Sample(11), Sample(13))},
			},
		},
		{
			name: "order is kept and duplicates are not removed",
			raw:  " 2  10.0.0.2  1 ms\n 1  10.0.0.1  1 ms\n 1  10.0.0.1  1 ms\n",
			want: []Hop{
				{Number: 2, Address: "10.0.0.2", Samples: samples(Sample(1), nil, nil)},
				{Number: 1, Address: "10.0.0.1", Samples: samples(Sample(1), nil, nil)},
				{Number: 1, Address: "10.0.0.1", Samples: samples(Sample(1), nil, nil)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.raw)
			require.NotNil(t, got)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_HopNumberMatchesLeadingInteger(t *testing.T) {
	for _, raw := range []string{test.LinuxICMPOutput, test.LinuxNumericOutput, test.MacOSOutput, test.WindowsOutput} {
		for i, hop := range Parse(raw) {
			assert.Equal(t, i+1, hop.Number)
			assert.Len(t, hop.Samples, SamplesPerHop)
			if hop.Address != "" {
				assert.NotEqual(t, hop.Address, hop.Hostname, "hostname must not duplicate the address")
			}
		}
	}
}

func TestParse_SkipsOversizedLine(t *testing.T) {
	raw := " 1  10.0.0.1  1.000 ms  1.100 ms  1.200 ms\n" +
		strings.Repeat("x", maxLineLength+6*1024) + "\n" +
		" 2  10.0.0.2  2.000 ms  2.100 ms  2.200 ms\r\n" +
		" 3  10.0.0.3  3.000 ms  *  3.200 ms"

	hops := Parse(raw)
	require.Len(t, hops, 3)
	for i, hop := range hops {
		assert.Equal(t, i+1, hop.Number)
	}
	assert.Equal(t, "10.0.0.2", hops[1].Address)
	assert.Nil(t, hops[2].Samples[1])
}

func Test_tokenize(t *testing.T) {
	got := tokenize(" 1  gw (10.0.0.1)  0.5ms  *  <1 ms")
	want := []token{
		{kind: tokenNumber, text: "1"},
		{kind: tokenName, text: "gw"},
		{kind: tokenEnclosedAddr, text: "10.0.0.1"},
		{kind: tokenNumber, text: "0.5"},
		{kind: tokenUnit, text: "ms"},
		{kind: tokenStar, text: "*"},
		{kind: tokenNumber, text: "<1"},
		{kind: tokenUnit, text: "ms"},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(token{})); diff != "" {
		t.Errorf("tokenize() mismatch (-want +got):\n%s", diff)
	}
}
