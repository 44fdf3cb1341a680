// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHop_AverageRTT(t *testing.T) {
	tests := []struct {
		name   string
		hop    Hop
		want   float64
		wantOk bool
	}{
		{
			name:   "all samples present",
			hop:    Hop{Samples: []*float64{Sample(12.3), Sample(11.8), Sample(13.0)}},
			want:   (12.3 + 11.8 + 13.0) / 3,
			wantOk: true,
		},
		{
			name:   "absent samples are not counted",
			hop:    Hop{Samples: []*float64{Sample(10), nil, Sample(20)}},
			want:   15,
			wantOk: true,
		},
		{
			name:   "no present samples is no data",
			hop:    Hop{Samples: []*float64{nil, nil, nil}},
			wantOk: false,
		},
		{
			name:   "no samples at all",
			hop:    Hop{},
			wantOk: false,
		},
		{
			name:   "zero is a valid sample",
			hop:    Hop{Samples: []*float64{Sample(0), nil, nil}},
			want:   0,
			wantOk: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.hop.AverageRTT()
			require.Equal(t, tt.wantOk, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestHop_String(t *testing.T) {
	tests := []struct {
		name     string
		hop      Hop
		expected string
	}{
		{
			name:     "resolved host",
			hop:      Hop{Number: 1, Address: "192.168.0.1", Hostname: "router.local", Samples: []*float64{Sample(0.5), nil, Sample(0.25)}},
			expected: "1   router.local",
		},
		{
			name:     "unresolved host",
			hop:      Hop{Number: 2, Address: "10.0.0.1", Samples: []*float64{Sample(1)}},
			expected: "2   10.0.0.1",
		},
		{
			name:     "timed out hop",
			hop:      Hop{Number: 3, Samples: []*float64{nil, nil, nil}},
			expected: "3   *",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.hop.String()
			assert.True(t, strings.HasPrefix(got, tt.expected), "got %q", got)
		})
	}

	assert.Contains(t, Hop{Number: 1, Address: "10.0.0.1", Samples: []*float64{Sample(0.5), nil}}.String(), "0.500 ms  *")
}

func TestHop_TimedOut(t *testing.T) {
	assert.True(t, Hop{Number: 1}.TimedOut())
	assert.False(t, Hop{Number: 1, Address: "10.0.0.1"}.TimedOut())
}

func TestResult_LastHop(t *testing.T) {
	_, ok := Result{}.LastHop()
	assert.False(t, ok)

	res := Result{Hops: []Hop{{Number: 1}, {Number: 2, Address: "10.0.0.2"}}}
	last, ok := res.LastHop()
	require.True(t, ok)
	assert.Equal(t, 2, last.Number)
}

func TestHop_MarshalJSON_AbsentValues(t *testing.T) {
	b, err := json.Marshal(Hop{Number: 5, Samples: []*float64{nil, Sample(1.5), nil}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"hop":5,"rtt":[null,1.5,null]}`, string(b))
}
