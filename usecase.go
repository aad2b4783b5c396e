package spf

import (
	"context"

	"github.com/inboxguard/spfaudit/spferr"
)

// Presenter is the sink the summary use case hands results to.
// Implementations are free to render plain text, source-span-annotated
// text, or a machine-readable form; none of that lives in this package.
type Presenter interface {
	Success(answer *SpfAnswer)
	Error(diagnostic *Diagnostic)
}

// Summarize is the orchestrator: it resolves domainName (optionally
// against a literal record), runs every validator check over the result,
// and hands everything to presenter exactly as described in §4.3.
//
// A resolver failure (NoSpfRecordFound or any DNS error) short-circuits
// straight to presenter.Error. Otherwise every validator diagnostic is
// handed to presenter.Error in the order Validate produced it; only when
// there are none does presenter.Success run.
func Summarize(ctx context.Context, port DNSPort, domainName string, record *string, presenter Presenter) {
	answer, err := Resolve(ctx, port, domainName, record)
	if err != nil {
		presenter.Error(toDiagnostic(err))
		return
	}

	diags := Validate(answer)
	if len(diags) > 0 {
		for _, d := range diags {
			presenter.Error(d)
		}
		return
	}

	presenter.Success(answer)
}

// toDiagnostic normalizes a resolve failure into a Diagnostic: resolve
// already returns *Diagnostic for NoSpfRecordFound, but a/mx DNS
// transport failures propagate as plain wrapped errors (see resolveMechanism),
// so those get wrapped here rather than forcing every DNSPort
// implementation to construct diagnostics itself.
func toDiagnostic(err error) *Diagnostic {
	if diag, ok := err.(*Diagnostic); ok {
		return diag
	}
	return &Diagnostic{
		Message: err.Error(),
		Kind:    spferr.KindDNS,
		Code:    "dns-error",
	}
}
