package spf

import (
	"context"
	"fmt"
	"strings"
)

// Resolve builds a fully expanded term tree for domainName. If record is
// non-nil its contents are used verbatim as the RDATA (no DNS query is
// issued for the top-level record); otherwise the TXT records for
// domainName are queried and the first one beginning with "v=spf1" is
// used. include:/redirect= targets always resolve via DNS regardless of
// whether the top-level call supplied a literal record.
//
// Resolve does not itself cap recursion depth or DNS-lookup count; that
// budget is enforced by Validate (see checkLookupBudget), run afterward
// over the returned tree.
func Resolve(ctx context.Context, port DNSPort, domainName string, record *string) (*SpfAnswer, error) {
	return resolveName(ctx, port, domainName, record)
}

func resolveName(ctx context.Context, port DNSPort, domainName string, record *string) (*SpfAnswer, error) {
	domainName = NormalizeDomain(domainName)

	rdata, err := acquireRDATA(ctx, port, domainName, record)
	if err != nil {
		return nil, err
	}

	tokens := tokenizeRDATA(rdata)

	answer := &SpfAnswer{RawRDATA: rdata}
	if len(tokens) == 0 {
		return answer, nil
	}
	answer.Version = Version{Raw: tokens[0]}

	terms := make([]Term, 0, len(tokens)-1)
	for _, token := range tokens[1:] {
		term, err := resolveTerm(ctx, port, domainName, token)
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	answer.Terms = terms
	return answer, nil
}

// acquireRDATA implements the "input acquisition" half of §4.1: a literal
// record wins outright; otherwise the first TXT string beginning with
// "v=spf1" is chosen from a live DNS query.
func acquireRDATA(ctx context.Context, port DNSPort, domainName string, record *string) (string, error) {
	if record != nil {
		return *record, nil
	}

	txts, err := port.QueryTXT(ctx, domainName)
	if err != nil {
		return "", fmt.Errorf("TXT lookup for %q: %w", domainName, err)
	}

	for _, s := range txts {
		if strings.HasPrefix(s, "v=spf1") {
			return s, nil
		}
	}

	return "", newNoSpfRecordFound(domainName, noSpfRecordHelp(txts))
}

// noSpfRecordHelp surfaces near-miss SPF-looking TXT strings (e.g. a
// record missing its leading "v=spf1" token, or one with a typo in it) so
// the presenter can point the user at a likely culprit instead of just
// reporting silence.
func noSpfRecordHelp(txts []string) string {
	candidates := FilterSPFCandidates(txts)
	if len(candidates) == 0 {
		return ""
	}
	return "found SPF-like TXT record(s) that do not begin with \"v=spf1\": " + strings.Join(candidates, "; ")
}

// resolveTerm classifies and (where required) resolves a single non-version
// token into the Term it produces.
func resolveTerm(ctx context.Context, port DNSPort, domainName, token string) (Term, error) {
	qualifier, remainder := splitQualifier(token)

	c, ok := classifyToken(remainder, domainName)
	if !ok {
		return &UnknownTerm{Raw: token}, nil
	}

	if c.modifier != nil {
		mod, degraded, err := resolveModifier(ctx, port, c.modifier, token)
		if err != nil {
			return nil, err
		}
		if degraded != nil {
			return degraded, nil
		}
		return &ModifierTerm{Modifier: mod, Raw: token}, nil
	}

	mech, degraded, err := resolveMechanism(ctx, port, domainName, c.mechanism, token)
	if err != nil {
		return nil, err
	}
	if degraded != nil {
		return degraded, nil
	}
	return &DirectiveTerm{Qualifier: qualifier, Mechanism: mech, Raw: token}, nil
}

// resolveMechanism performs whatever live resolution a mechanism needs:
// a/mx issue DNS address/exchange queries (fatal on failure); include:
// recurses via resolveName, degrading a NoSpfRecordFound result to an
// UnknownTerm per §4.1.2. Other mechanisms need no further work.
func resolveMechanism(ctx context.Context, port DNSPort, domainName string, m Mechanism, token string) (Mechanism, *UnknownTerm, error) {
	switch mech := m.(type) {
	case *AMechanism:
		mech.Domain = NormalizeDomain(mech.Domain)
		addrs, err := port.QueryA(ctx, mech.Domain)
		if err != nil {
			return nil, nil, fmt.Errorf("A lookup for %q (from %q): %w", mech.Domain, token, err)
		}
		mech.Addresses = addrs
		return mech, nil, nil

	case *MxMechanism:
		mech.Domain = NormalizeDomain(mech.Domain)
		exchanges, err := port.QueryMX(ctx, mech.Domain)
		if err != nil {
			return nil, nil, fmt.Errorf("MX lookup for %q (from %q): %w", mech.Domain, token, err)
		}
		mech.Exchanges = exchanges
		return mech, nil, nil

	case *IncludeMechanism:
		sub, err := resolveName(ctx, port, mech.DomainSpec, nil)
		if err != nil {
			if diag, ok := asNoSpfRecordFound(err); ok {
				return nil, &UnknownTerm{Raw: token, Note: diag.Message}, nil
			}
			return nil, nil, err
		}
		mech.Version = sub.Version
		mech.Terms = sub.Terms
		mech.RawRDATA = sub.RawRDATA
		return mech, nil, nil

	default:
		return m, nil, nil
	}
}

// resolveModifier mirrors resolveMechanism for redirect=, which embeds a
// full sub-tree exactly like include:. exp= needs no resolution: its
// target names a TXT explanation record, not an SPF policy, and macro
// expansion of its contents is out of scope.
func resolveModifier(ctx context.Context, port DNSPort, mod Modifier, token string) (Modifier, *UnknownTerm, error) {
	redirect, ok := mod.(*RedirectModifier)
	if !ok {
		return mod, nil, nil
	}

	sub, err := resolveName(ctx, port, redirect.DomainSpec, nil)
	if err != nil {
		if diag, ok := asNoSpfRecordFound(err); ok {
			return nil, &UnknownTerm{Raw: token, Note: diag.Message}, nil
		}
		return nil, nil, err
	}
	redirect.Version = sub.Version
	redirect.Terms = sub.Terms
	redirect.RawRDATA = sub.RawRDATA
	return redirect, nil, nil
}

func asNoSpfRecordFound(err error) (*Diagnostic, bool) {
	diag, ok := err.(*Diagnostic)
	if !ok || diag.Code != "no-spf-record-found" {
		return nil, false
	}
	return diag, true
}
