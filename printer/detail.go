package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/logrusorgru/aurora/v4"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	spf "github.com/inboxguard/spfaudit"
)

// Detail is a spf.Presenter that colorizes its output the way a
// terminal SPF debugging tool does: qualifiers and severities get a
// color, everything else stays plain. Color is suppressed automatically
// when w isn't a terminal.
type Detail struct {
	w  io.Writer
	au aurora.Aurora
}

// NewDetail returns a Detail presenter writing to w, auto-detecting
// whether w supports ANSI color (true for an *os.File pointing at a
// terminal, false otherwise — e.g. when piped to a file).
func NewDetail(w io.Writer) *Detail {
	colorEnabled := false
	if f, ok := w.(*os.File); ok {
		colorEnabled = isatty.IsTerminal(f.Fd())
	}
	return &Detail{w: w, au: aurora.NewAurora(colorEnabled)}
}

// NewColorableStdout returns a Detail presenter writing to a
// Windows-ANSI-translating stdout, so color works in cmd.exe as well as
// real terminals.
func NewColorableStdout() *Detail {
	return &Detail{
		w:  colorable.NewColorableStdout(),
		au: aurora.NewAurora(isatty.IsTerminal(os.Stdout.Fd())),
	}
}

func (d *Detail) Success(answer *spf.SpfAnswer) {
	fmt.Fprintf(d.w, "%s\n", d.au.Magenta(answer.RawRDATA))
	d.printTerms(answer.Terms, 1)
}

func (d *Detail) Error(diag *spf.Diagnostic) {
	severity := d.au.Red(diag.Severity.String())
	if diag.Severity == spf.SeverityWarning {
		severity = d.au.Yellow(diag.Severity.String())
	}
	fmt.Fprintf(d.w, "%s: %s\n", severity, diag.Message)
	if diag.SourceExcerpt != "" {
		fmt.Fprintf(d.w, "  %s\n", diag.SourceExcerpt)
		for _, l := range diag.Labels {
			fmt.Fprintf(d.w, "  %s%s %s\n", strings.Repeat(" ", l.Span.Start), d.au.BrightRed("^"), l.Note)
		}
	}
	if diag.Help != "" {
		fmt.Fprintf(d.w, "  %s %s\n", d.au.Cyan("help:"), diag.Help)
	}
}

func (d *Detail) printTerms(terms []spf.Term, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, term := range terms {
		switch t := term.(type) {
		case *spf.DirectiveTerm:
			fmt.Fprintf(d.w, "%s%s%s\n", indent, d.qualifierPrefix(t.Qualifier), describeMechanism(t.Mechanism))
			if inc, ok := t.Mechanism.(*spf.IncludeMechanism); ok {
				d.printTerms(inc.Terms, depth+1)
			}
		case *spf.ModifierTerm:
			fmt.Fprintf(d.w, "%s%s\n", indent, describeModifier(t.Modifier))
			if red, ok := t.Modifier.(*spf.RedirectModifier); ok {
				d.printTerms(red.Terms, depth+1)
			}
		case *spf.UnknownTerm:
			fmt.Fprintf(d.w, "%s%s: %s", indent, d.au.BrightRed("unknown"), t.Raw)
			if t.Note != "" {
				fmt.Fprintf(d.w, " (%s)", t.Note)
			}
			fmt.Fprintln(d.w)
		}
	}
}

// qualifierPrefix colors a directive's qualifier the way a reader scans
// an SPF record: fail in red, softfail in yellow, neutral in blue, pass
// unmarked (the common case shouldn't shout, and has no "+" to print).
func (d *Detail) qualifierPrefix(q spf.Qualifier) string {
	switch q {
	case spf.Fail:
		return d.au.Red(q.String()).String()
	case spf.SoftFail:
		return d.au.Yellow(q.String()).String()
	case spf.Neutral:
		return d.au.Blue(q.String()).String()
	default:
		return ""
	}
}
