// Package dnsresolver provides concrete spf.DNSPort implementations: a
// stdlib net-based one for simple cases, a github.com/miekg/dns-based one
// with response caching and singleflight de-duplication for production
// use, and a backoff-retrying wrapper around either.
package dnsresolver

import (
	"context"
	"errors"
	"net"
)

// ErrTemporary is returned by a DNSPort implementation when the DNS
// server returned an error (RCODE other than 0 or 3) or the query timed
// out — conditions a caller might reasonably retry. A "no such host"
// answer (RCODE 3, NXDOMAIN) is not an error: it surfaces as an empty
// result, matching how Resolve treats an absent record.
var ErrTemporary = errors.New("temporary DNS error")

// StdPort implements spf.DNSPort using the standard library's resolver.
// It is the simplest possible port — no caching, no custom transport —
// useful for quick scripts and as the innermost leg of RetryPort.
type StdPort struct{}

func (StdPort) QueryTXT(ctx context.Context, name string) ([]string, error) {
	txts, err := net.DefaultResolver.LookupTXT(ctx, name)
	if err := classifyStdErr(err); err != nil {
		return nil, err
	}
	return unescapeAll(txts), nil
}

func (StdPort) QueryA(ctx context.Context, name string) ([]net.IP, error) {
	ips, err := net.DefaultResolver.LookupIP(ctx, "ip", name)
	if err := classifyStdErr(err); err != nil {
		return nil, err
	}
	return ips, nil
}

func (StdPort) QueryMX(ctx context.Context, name string) ([]string, error) {
	mxs, err := net.DefaultResolver.LookupMX(ctx, name)
	if err := classifyStdErr(err); err != nil {
		return nil, err
	}
	hosts := make([]string, 0, len(mxs))
	for _, mx := range mxs {
		hosts = append(hosts, mx.Host)
	}
	return hosts, nil
}

// classifyStdErr turns net.LookupXxx's NXDOMAIN into a clean "no results,
// no error" the same way RFC 7208 treats RCODE 3 — evaluation continues
// as if zero answer records were returned — while surfacing every other
// failure as ErrTemporary.
func classifyStdErr(err error) error {
	if err == nil {
		return nil
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return nil
	}
	return ErrTemporary
}

// unescapeAll unescapes the SPF "\32" space-escape (RFC 7208 §3.3) in
// every TXT string, per the DNS port's contract (spec §6): the core never
// sees escaped records.
func unescapeAll(txts []string) []string {
	for i, t := range txts {
		txts[i] = unescapeSpaces(t)
	}
	return txts
}
