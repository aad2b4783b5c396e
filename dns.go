package spf

import (
	"context"
	"net"
)

// DNSPort is the narrow capability the resolver consumes: three blocking
// (from the resolver's point of view) queries against a name. It is a
// capability, not a concrete client — the resolver never knows whether an
// implementation talks real UDP/TCP DNS, serves from a cache, or is an
// in-memory test double.
type DNSPort interface {
	// QueryTXT returns every TXT string published for name. Implementations
	// must unescape the SPF "\32" space-escape to a literal space before
	// returning.
	QueryTXT(ctx context.Context, name string) ([]string, error)

	// QueryA returns every A/AAAA address published for name, merged into a
	// single slice regardless of address family.
	QueryA(ctx context.Context, name string) ([]net.IP, error)

	// QueryMX returns every MX exchange host name published for name. The
	// order is the implementation's: StdPort sorts by preference,
	// MiekgPort keeps the order of the answer section.
	QueryMX(ctx context.Context, name string) ([]string, error)
}
