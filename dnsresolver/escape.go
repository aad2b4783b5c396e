package dnsresolver

import "strings"

// unescapeSpaces converts the SPF space-escape "\32" to a literal space.
// RFC 7208 §3.3 permits publishers to escape spaces this way when a DNS
// provisioning UI collapses literal whitespace; every DNSPort
// implementation in this package applies it to TXT answers before they
// reach the resolver.
func unescapeSpaces(s string) string {
	return strings.ReplaceAll(s, `\32`, " ")
}
