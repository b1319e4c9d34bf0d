package geoip

import (
	"context"
	"errors"
)

// ErrNotFound is returned by a Resolver when the geolocation database has no
// entry for the source address. The filter treats it exactly like a transport
// error: both count as an unresolvable address.
var ErrNotFound = errors.New("geoip: address not found")

// Resolver resolves a source IP address to a geolocation record. The filter
// issues exactly one resolution per request; retry, timeout and caching
// policy belong to the implementation behind this interface.
type Resolver interface {
	Resolve(ctx context.Context, address string) (*Record, error)
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(ctx context.Context, address string) (*Record, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, address string) (*Record, error) {
	return f(ctx, address)
}
