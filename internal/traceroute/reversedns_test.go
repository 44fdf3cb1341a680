// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameResolver_Lookup(t *testing.T) {
	calls := map[string]int{}
	orig := lookupAddrFn
	t.Cleanup(func() { lookupAddrFn = orig })
	lookupAddrFn = func(_ context.Context, addr string) ([]string, error) {
		calls[addr]++
		switch addr {
		case "93.184.216.34":
			return []string{"edge.example.com.", "alias.example.com."}, nil
		case "10.0.0.1":
			return nil, nil
		default:
			return nil, errors.New("no such host")
		}
	}

	r := newNameResolver()
	tests := []struct {
		name string
		addr string
		want string
	}{
		{name: "resolved with trailing dot trimmed", addr: "93.184.216.34", want: "edge.example.com"},
		{name: "no names", addr: "10.0.0.1", want: ""},
		{name: "lookup error", addr: "203.0.113.1", want: ""},
		{name: "empty address", addr: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Lookup(t.Context(), tt.addr))
			// cached answers, including misses, do not trigger another lookup
			assert.Equal(t, tt.want, r.Lookup(t.Context(), tt.addr))
		})
	}

	assert.Equal(t, 1, calls["93.184.216.34"])
	assert.Equal(t, 1, calls["10.0.0.1"])
	assert.Equal(t, 1, calls["203.0.113.1"])
	assert.Zero(t, calls[""])
}
