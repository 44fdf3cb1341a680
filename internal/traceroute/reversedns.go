// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package traceroute

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/telekom/hopscope/internal/logger"
)

const (
	// reverseDNSTTL is how long a resolved name is cached.
	reverseDNSTTL = 10 * time.Minute
	// reverseDNSTimeout bounds a single lookup.
	reverseDNSTimeout = 2 * time.Second
)

// lookupAddrFn performs the reverse lookup. It is replaced in tests.
var lookupAddrFn = net.DefaultResolver.LookupAddr

// nameResolver resolves hop addresses to names and caches the answers,
// including failed lookups, so that a router is only queried once per TTL.
type nameResolver struct {
	cache *cache.Cache
}

func newNameResolver() *nameResolver {
	return &nameResolver{
		cache: cache.New(reverseDNSTTL, 2*reverseDNSTTL),
	}
}

// Lookup returns the first name of the address without the trailing dot
// or an empty string if the address cannot be resolved.
func (r *nameResolver) Lookup(ctx context.Context, addr string) string {
	if addr == "" {
		return ""
	}
	if name, ok := r.cache.Get(addr); ok {
		return name.(string)
	}

	ctx, cancel := context.WithTimeout(ctx, reverseDNSTimeout)
	defer cancel()

	name := ""
	names, err := lookupAddrFn(ctx, addr)
	switch {
	case err != nil:
		logger.FromContext(ctx).DebugContext(ctx, "Reverse DNS lookup failed", "address", addr, "error", err)
	case len(names) > 0:
		name = strings.TrimRight(names[0], ".")
	}

	r.cache.Set(addr, name, cache.DefaultExpiration)
	return name
}
