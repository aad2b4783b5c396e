package spf

import (
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeDomain lower-cases name, appends the root-domain dot expected
// by a DNS query (mirroring the FQDN normalization every DNS-facing
// example in this codebase performs before a lookup), and — only when the
// result isn't already a plain ASCII hostname — converts it to its
// ASCII/punycode form via IDNA. Domains that idna rejects outright fall
// back to the plain lower-cased copy: a bad domain-spec fails later at
// DNS lookup time rather than aborting the whole resolve.
func NormalizeDomain(name string) string {
	if name == "" {
		return ""
	}
	lower := strings.ToLower(name)
	if lower[len(lower)-1] != '.' {
		lower += "."
	}
	if isDomainName(lower) {
		return lower
	}
	ascii, err := idna.Lookup.ToASCII(lower)
	if err != nil {
		return lower
	}
	if ascii[len(ascii)-1] != '.' {
		ascii += "."
	}
	return ascii
}

// isDomainName checks if a string is a presentation-format domain name
// (currently restricted to hostname-compatible "preferred name" LDH labels
// and SRV-like "underscore labels"; see golang.org/issue/12421).
//
// Adapted from https://github.com/golang/go/blob/8a16c71067ca2cfd09281a82ee150a408095f0bc/src/net/dnsclient.go#L60
func isDomainName(s string) bool {
	l := len(s)
	if l == 0 || l > 254 || l == 254 && s[l-1] != '.' {
		return false
	}

	last := byte('.')
	ok := false
	partlen := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		default:
			return false
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_':
			ok = true
			partlen++
		case '0' <= c && c <= '9':
			partlen++
		case c == '-':
			if last == '.' {
				return false
			}
			partlen++
		case c == '.':
			if last == '.' || last == '-' {
				return false
			}
			if partlen > 63 || partlen == 0 {
				return false
			}
			partlen = 0
		}
		last = c
	}
	if last == '-' || partlen > 63 {
		return false
	}

	return ok
}
