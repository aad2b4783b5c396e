package dnsresolver_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/inboxguard/spfaudit/dnsresolver"
)

// flakyPort fails with ErrTemporary `failures` times before succeeding,
// counting every attempt it sees in *tries.
type flakyPort struct {
	failures int
	tries    *int
}

func (p *flakyPort) QueryTXT(ctx context.Context, name string) ([]string, error) {
	*p.tries++
	if p.failures > 0 {
		p.failures--
		return nil, dnsresolver.ErrTemporary
	}
	return []string{"v=spf1 -all"}, nil
}

func (p *flakyPort) QueryA(context.Context, string) ([]net.IP, error)   { return nil, nil }
func (p *flakyPort) QueryMX(context.Context, string) ([]string, error) { return nil, nil }

func TestRetryPortRetriesUntilSuccess(t *testing.T) {
	var tries int
	next := &flakyPort{failures: 2, tries: &tries}
	port := dnsresolver.NewRetryPort(next,
		dnsresolver.RetryBackoffMin(10*time.Millisecond),
		dnsresolver.RetryTimeout(time.Second),
		dnsresolver.RetryBackoffJitter(false),
	)

	txts, err := port.QueryTXT(context.Background(), "example.com.")
	if err != nil {
		t.Fatalf("want success after retries, got %v", err)
	}
	if len(txts) != 1 {
		t.Fatalf("want 1 txt record, got %d", len(txts))
	}
	if tries != 3 {
		t.Errorf("want 3 attempts, got %d", tries)
	}
}

func TestRetryPortGivesUpAfterTimeout(t *testing.T) {
	var tries int
	next := &flakyPort{failures: 1000, tries: &tries}
	port := dnsresolver.NewRetryPort(next,
		dnsresolver.RetryBackoffMin(20*time.Millisecond),
		dnsresolver.RetryTimeout(150*time.Millisecond),
		dnsresolver.RetryBackoffJitter(false),
	)

	start := time.Now()
	_, err := port.QueryTXT(context.Background(), "example.com.")
	if !errors.Is(err, dnsresolver.ErrTemporary) {
		t.Fatalf("want ErrTemporary, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("retry loop ran too long: %v", elapsed)
	}
}

func TestRetryPortDoesNotRetryNonTemporaryError(t *testing.T) {
	var tries int
	permanent := errors.New("permanent failure")
	next := &erroringPort{err: permanent, tries: &tries}
	port := dnsresolver.NewRetryPort(next, dnsresolver.RetryBackoffMin(10*time.Millisecond))

	_, err := port.QueryTXT(context.Background(), "example.com.")
	if !errors.Is(err, permanent) {
		t.Fatalf("want permanent error to pass through unchanged, got %v", err)
	}
	if tries != 1 {
		t.Errorf("want exactly 1 attempt for a non-temporary error, got %d", tries)
	}
}

type erroringPort struct {
	err   error
	tries *int
}

func (p *erroringPort) QueryTXT(context.Context, string) ([]string, error) {
	*p.tries++
	return nil, p.err
}

func (p *erroringPort) QueryA(context.Context, string) ([]net.IP, error)   { return nil, nil }
func (p *erroringPort) QueryMX(context.Context, string) ([]string, error) { return nil, nil }
