package spf_test

import (
	"context"
	"testing"

	spf "github.com/inboxguard/spfaudit"
)

type recordingPresenter struct {
	successes []*spf.SpfAnswer
	errors    []*spf.Diagnostic
}

func (p *recordingPresenter) Success(answer *spf.SpfAnswer) { p.successes = append(p.successes, answer) }
func (p *recordingPresenter) Error(d *spf.Diagnostic)        { p.errors = append(p.errors, d) }

func TestSummarizeSuccess(t *testing.T) {
	record := "v=spf1 -all"
	presenter := &recordingPresenter{}
	spf.Summarize(context.Background(), newStubPort(), "example.com", &record, presenter)

	if len(presenter.errors) != 0 {
		t.Fatalf("errors = %v, want none", presenter.errors)
	}
	if len(presenter.successes) != 1 {
		t.Fatalf("successes = %d, want 1", len(presenter.successes))
	}
}

func TestSummarizeResolveFailureShortCircuits(t *testing.T) {
	port := newStubPort()
	port.txt["example.com."] = []string{"not an spf record"}

	presenter := &recordingPresenter{}
	spf.Summarize(context.Background(), port, "example.com", nil, presenter)

	if len(presenter.successes) != 0 {
		t.Fatalf("successes = %d, want 0", len(presenter.successes))
	}
	if len(presenter.errors) != 1 {
		t.Fatalf("errors = %d, want 1", len(presenter.errors))
	}
	if presenter.errors[0].Code != "no-spf-record-found" {
		t.Errorf("error code = %q, want no-spf-record-found", presenter.errors[0].Code)
	}
}

func TestSummarizeValidatorDiagnosticsAllReported(t *testing.T) {
	record := "spf1 foo -all" // missing v= AND an unknown term
	presenter := &recordingPresenter{}
	spf.Summarize(context.Background(), newStubPort(), "example.com", &record, presenter)

	if len(presenter.successes) != 0 {
		t.Fatalf("successes = %d, want 0", len(presenter.successes))
	}
	if len(presenter.errors) < 2 {
		t.Fatalf("errors = %d, want at least 2", len(presenter.errors))
	}
}
