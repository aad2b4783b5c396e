package spf_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	spf "github.com/inboxguard/spfaudit"
)

// stubPort is an in-memory spf.DNSPort used to exercise the resolver
// without touching the network, the same role dnsresolver/dnstest's
// in-process miekg server plays for the DNS-implementation tests.
type stubPort struct {
	txt map[string][]string
	a   map[string][]net.IP
	mx  map[string][]string
	err map[string]error
}

func newStubPort() *stubPort {
	return &stubPort{
		txt: map[string][]string{},
		a:   map[string][]net.IP{},
		mx:  map[string][]string{},
		err: map[string]error{},
	}
}

func (p *stubPort) QueryTXT(_ context.Context, name string) ([]string, error) {
	if err, ok := p.err[name]; ok {
		return nil, err
	}
	return p.txt[name], nil
}

func (p *stubPort) QueryA(_ context.Context, name string) ([]net.IP, error) {
	if err, ok := p.err[name]; ok {
		return nil, err
	}
	return p.a[name], nil
}

func (p *stubPort) QueryMX(_ context.Context, name string) ([]string, error) {
	if err, ok := p.err[name]; ok {
		return nil, err
	}
	return p.mx[name], nil
}

func TestResolveLiteralRecordAllOnly(t *testing.T) {
	record := "v=spf1 -all"
	answer, err := spf.Resolve(context.Background(), newStubPort(), "example.com", &record)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if answer.Version.Raw != "v=spf1" {
		t.Errorf("Version.Raw = %q, want v=spf1", answer.Version.Raw)
	}
	if len(answer.Terms) != 1 {
		t.Fatalf("len(Terms) = %d, want 1", len(answer.Terms))
	}
	d, ok := answer.Terms[0].(*spf.DirectiveTerm)
	if !ok {
		t.Fatalf("Terms[0] = %T, want *spf.DirectiveTerm", answer.Terms[0])
	}
	if d.Qualifier != spf.Fail {
		t.Errorf("Qualifier = %v, want Fail", d.Qualifier)
	}
	if d.Mechanism.Kind() != spf.MechanismAll {
		t.Errorf("Mechanism.Kind() = %v, want MechanismAll", d.Mechanism.Kind())
	}
}

func TestResolveIncludeRecurses(t *testing.T) {
	port := newStubPort()
	port.txt["_spf.example.com."] = []string{"v=spf1 -all"}

	record := "v=spf1 include:_spf.example.com"
	answer, err := spf.Resolve(context.Background(), port, "example.com", &record)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(answer.Terms) != 1 {
		t.Fatalf("len(Terms) = %d, want 1", len(answer.Terms))
	}
	d := answer.Terms[0].(*spf.DirectiveTerm)
	inc, ok := d.Mechanism.(*spf.IncludeMechanism)
	if !ok {
		t.Fatalf("Mechanism = %T, want *spf.IncludeMechanism", d.Mechanism)
	}
	if len(inc.Terms) != 1 {
		t.Fatalf("len(inc.Terms) = %d, want 1", len(inc.Terms))
	}
}

func TestResolveIncludeDegradesToUnknownOnNoSpfRecord(t *testing.T) {
	port := newStubPort()
	// no TXT configured for _spf.example.com. at all

	record := "v=spf1 include:_spf.example.com -all"
	answer, err := spf.Resolve(context.Background(), port, "example.com", &record)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(answer.Terms) != 2 {
		t.Fatalf("len(Terms) = %d, want 2", len(answer.Terms))
	}
	u, ok := answer.Terms[0].(*spf.UnknownTerm)
	if !ok {
		t.Fatalf("Terms[0] = %T, want *spf.UnknownTerm", answer.Terms[0])
	}
	if u.Note == "" {
		t.Error("UnknownTerm.Note is empty, want the underlying NoSpfRecordFound message")
	}
}

func TestResolveAMxAndIP4(t *testing.T) {
	port := newStubPort()
	port.a["example.com."] = []net.IP{net.ParseIP("192.0.2.1")}
	port.mx["example.com."] = []string{"mail.example.com."}

	record := "v=spf1 a mx ip4:192.0.2.0/24 -all"
	answer, err := spf.Resolve(context.Background(), port, "example.com", &record)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(answer.Terms) != 4 {
		t.Fatalf("len(Terms) = %d, want 4", len(answer.Terms))
	}

	wantKinds := []spf.MechanismKind{spf.MechanismA, spf.MechanismMx, spf.MechanismIp4, spf.MechanismAll}
	for i, want := range wantKinds {
		d := answer.Terms[i].(*spf.DirectiveTerm)
		if d.Mechanism.Kind() != want {
			t.Errorf("Terms[%d].Mechanism.Kind() = %v, want %v", i, d.Mechanism.Kind(), want)
		}
	}

	aMech := answer.Terms[0].(*spf.DirectiveTerm).Mechanism.(*spf.AMechanism)
	if diff := cmp.Diff([]net.IP{net.ParseIP("192.0.2.1")}, aMech.Addresses, cmpopts.EquateComparable()); diff != "" {
		t.Errorf("AMechanism.Addresses mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveNoSpfRecordFoundAtTopLevel(t *testing.T) {
	port := newStubPort()
	port.txt["example.com."] = []string{"some other TXT record"}

	_, err := spf.Resolve(context.Background(), port, "example.com", nil)
	if err == nil {
		t.Fatal("Resolve() error = nil, want NoSpfRecordFound")
	}
	var diag *spf.Diagnostic
	if !errors.As(err, &diag) {
		t.Fatalf("error is %T, want *spf.Diagnostic", err)
	}
	if diag.Code != "no-spf-record-found" {
		t.Errorf("diag.Code = %q, want no-spf-record-found", diag.Code)
	}
}

func TestResolveAFailureIsFatal(t *testing.T) {
	port := newStubPort()
	port.err["example.com."] = errors.New("boom")

	record := "v=spf1 a -all"
	_, err := spf.Resolve(context.Background(), port, "example.com", &record)
	if err == nil {
		t.Fatal("Resolve() error = nil, want a propagated DNS error")
	}
}
