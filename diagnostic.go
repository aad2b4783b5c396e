package spf

import (
	"fmt"
	"strings"

	"github.com/inboxguard/spfaudit/spferr"
)

// Severity distinguishes diagnostics that reject a record from ones that
// merely note something worth the user's attention.
type Severity int

const (
	// SeverityError is the default: the record fails the check outright.
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// ByteSpan is a half-open [Start, End) byte range within a Diagnostic's
// SourceExcerpt.
type ByteSpan struct {
	Start int
	End   int
}

// Label anchors a short note to a byte range inside a Diagnostic's
// SourceExcerpt.
type Label struct {
	Span ByteSpan
	Note string
}

// Diagnostic is the richest of the three error shapes described in the
// error taxonomy: a message, optional severity (Error by default), an
// optional source excerpt, zero or more byte-range labels against that
// excerpt, optional help text, and an optional stable code.
//
// Diagnostic implements error so callers already matching on error values
// keep working; everything else (Kind, labels, help) is additional detail
// a presenter can use.
type Diagnostic struct {
	Message       string
	Severity      Severity
	Kind          spferr.Kind
	SourceExcerpt string
	Labels        []Label
	Help          string
	Code          string
	CodeURL       string
}

func (d *Diagnostic) Error() string {
	if d == nil {
		return "<nil>"
	}
	return d.Message
}

// newNoSpfRecordFound builds the diagnostic for the "no SPF record found"
// case. At top level this is fatal; inside include:/redirect= resolution
// it degrades to an UnknownTerm carrying this message (see
// resolveMechanism and resolveModifier).
func newNoSpfRecordFound(domainName string, help string) *Diagnostic {
	return &Diagnostic{
		Message: fmt.Sprintf("no SPF record found for %q", domainName),
		Kind:    spferr.KindDNS,
		Help:    help,
		Code:    "no-spf-record-found",
	}
}

// newCheckFailed builds a CheckFailed-shaped diagnostic: a validator rule
// rejected the record on a point that doesn't anchor to a specific byte
// range of the raw RDATA (e.g. an aggregate count like the lookup budget),
// so there's nothing for SourceExcerpt/Labels to point at.
func newCheckFailed(severity Severity, message, help, code string) *Diagnostic {
	return &Diagnostic{
		Message:  message,
		Severity: severity,
		Kind:     spferr.KindValidation,
		Help:     help,
		Code:     code,
	}
}

// newSyntaxDiagnostic builds the richer SyntaxError-shaped diagnostic: a
// validator check that can point at the offending bytes gets an excerpt and
// per-byte-range labels alongside the message.
func newSyntaxDiagnostic(severity Severity, message, excerpt string, labels []Label, help, code string) *Diagnostic {
	return &Diagnostic{
		Message:       message,
		Severity:      severity,
		Kind:          spferr.KindSyntax,
		SourceExcerpt: excerpt,
		Labels:        labels,
		Help:          help,
		Code:          code,
	}
}

// findTokenSpan returns the byte span of token within raw, provided the
// occurrence is preceded by either the start of the string or a single
// ASCII space (so it lines up with tokenize's space-delimited scheme).
// The returned span excludes that leading separator. ok is false when no
// such occurrence exists.
func findTokenSpan(raw, token string) (span ByteSpan, ok bool) {
	for offset := 0; offset <= len(raw); {
		idx := strings.Index(raw[offset:], token)
		if idx < 0 {
			return ByteSpan{}, false
		}
		abs := offset + idx
		atStart := abs == 0 || raw[abs-1] == ' '
		end := abs + len(token)
		atEnd := end == len(raw) || raw[end] == ' '
		if atStart && atEnd {
			return ByteSpan{Start: abs, End: end}, true
		}
		offset = abs + 1
	}
	return ByteSpan{}, false
}
