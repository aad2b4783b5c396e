// Package printer implements spf.Presenter: it renders a resolved term
// tree and validator diagnostics to a writer, the way the teacher's
// check_host tracer rendered a live evaluation — recursive, indented,
// one line per term.
package printer

import (
	"fmt"
	"io"
	"net"
	"strings"

	spf "github.com/inboxguard/spfaudit"
)

// Plain is a spf.Presenter that writes uncolored, indentation-based
// output, suitable for piping to a file or a terminal that doesn't
// support ANSI color.
type Plain struct {
	w io.Writer
}

// New returns a Plain presenter writing to w.
func New(w io.Writer) *Plain {
	return &Plain{w: w}
}

func (p *Plain) Success(answer *spf.SpfAnswer) {
	fmt.Fprintf(p.w, "%s\n", answer.RawRDATA)
	printTerms(p.w, answer.Terms, 1)
}

func (p *Plain) Error(d *spf.Diagnostic) {
	fmt.Fprintf(p.w, "%s: %s\n", d.Severity, d.Message)
	if d.SourceExcerpt != "" {
		fmt.Fprintf(p.w, "  %s\n", d.SourceExcerpt)
		for _, l := range d.Labels {
			fmt.Fprintf(p.w, "  %s^ %s\n", strings.Repeat(" ", l.Span.Start), l.Note)
		}
	}
	if d.Help != "" {
		fmt.Fprintf(p.w, "  help: %s\n", d.Help)
	}
}

func printTerms(w io.Writer, terms []spf.Term, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, term := range terms {
		switch t := term.(type) {
		case *spf.DirectiveTerm:
			fmt.Fprintf(w, "%s%s%s\n", indent, qualifierPrefix(t.Qualifier), describeMechanism(t.Mechanism))
			if inc, ok := t.Mechanism.(*spf.IncludeMechanism); ok {
				printTerms(w, inc.Terms, depth+1)
			}
		case *spf.ModifierTerm:
			fmt.Fprintf(w, "%s%s\n", indent, describeModifier(t.Modifier))
			if red, ok := t.Modifier.(*spf.RedirectModifier); ok {
				printTerms(w, red.Terms, depth+1)
			}
		case *spf.UnknownTerm:
			fmt.Fprintf(w, "%sunknown: %s", indent, t.Raw)
			if t.Note != "" {
				fmt.Fprintf(w, " (%s)", t.Note)
			}
			fmt.Fprintln(w)
		}
	}
}

func qualifierPrefix(q spf.Qualifier) string {
	if q == spf.Pass {
		return ""
	}
	return q.String()
}

func describeMechanism(m spf.Mechanism) string {
	switch mech := m.(type) {
	case *spf.AllMechanism:
		return "all"
	case *spf.AMechanism:
		return fmt.Sprintf("a:%s%s%s", mech.Domain, prefixSuffix(mech.Prefix), ipsSuffix(mech.Addresses))
	case *spf.MxMechanism:
		return fmt.Sprintf("mx:%s%s%s", mech.Domain, prefixSuffix(mech.Prefix), hostsSuffix(mech.Exchanges))
	case *spf.PtrMechanism:
		return fmt.Sprintf("ptr:%s", mech.Domain)
	case *spf.Ip4Mechanism:
		return fmt.Sprintf("ip4:%s%s", mech.IP, prefixSuffix(mech.Prefix))
	case *spf.Ip6Mechanism:
		return fmt.Sprintf("ip6:%s%s", mech.IP, prefixSuffix(mech.Prefix))
	case *spf.IncludeMechanism:
		return fmt.Sprintf("include:%s", mech.DomainSpec)
	case *spf.ExistsMechanism:
		return fmt.Sprintf("exists:%s", mech.DomainSpec)
	default:
		return m.RawValue()
	}
}

func describeModifier(m spf.Modifier) string {
	switch mod := m.(type) {
	case *spf.ExpModifier:
		return fmt.Sprintf("exp=%s", mod.DomainSpec)
	case *spf.RedirectModifier:
		return fmt.Sprintf("redirect=%s", mod.DomainSpec)
	default:
		return m.RawValue()
	}
}

func prefixSuffix(prefix *int) string {
	if prefix == nil {
		return ""
	}
	return fmt.Sprintf("/%d", *prefix)
}

func ipsSuffix(ips []net.IP) string {
	if len(ips) == 0 {
		return ""
	}
	strs := make([]string, len(ips))
	for i, ip := range ips {
		strs[i] = ip.String()
	}
	return fmt.Sprintf(" (%s)", strings.Join(strs, ", "))
}

func hostsSuffix(hosts []string) string {
	if len(hosts) == 0 {
		return ""
	}
	return fmt.Sprintf(" (%s)", strings.Join(hosts, ", "))
}
