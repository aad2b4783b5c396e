/*
spfaudit inspects the SPF record published for a domain: it resolves the
full term tree (following include:/redirect= references) and runs the
structural and lookup-budget checks against it.

	spfaudit example.com
	spfaudit --detail --record "v=spf1 ip4:203.0.113.0/24 -all" example.com

Exit code is 0 when the record is clean, non-zero when at least one
Error-severity diagnostic was produced. Warnings alone do not change the
exit code.
*/
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	spf "github.com/inboxguard/spfaudit"
	"github.com/inboxguard/spfaudit/dnsresolver"
	"github.com/inboxguard/spfaudit/printer"
)

func main() {
	var (
		record      string
		detail      bool
		dnsServer   string
		minCacheTTL time.Duration
	)
	flag.StringVar(&record, "record", "", "override the published record instead of querying DNS")
	flag.BoolVar(&detail, "detail", false, "render a colorized, recursively indented view of the term tree")
	flag.StringVar(&dnsServer, "dns-server", "", "DNS server (host:port) to query instead of the system resolver")
	flag.DurationVar(&minCacheTTL, "min-cache-ttl", 0, "floor applied to cached DNS response TTLs, e.g. 30s (only with --dns-server)")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalln("usage: spfaudit [--record rdata] [--detail] [--dns-server host:port] <domain>")
	}
	domain := flag.Arg(0)

	port, err := buildPort(dnsServer, minCacheTTL)
	if err != nil {
		log.Fatalf("building DNS port: %s", err)
	}

	present := presenter(detail)

	var recordOverride *string
	if record != "" {
		recordOverride = &record
	}

	exitCode := 0
	reporting := &exitTrackingPresenter{Presenter: present, exitCode: &exitCode}
	spf.Summarize(context.Background(), port, domain, recordOverride, reporting)
	os.Exit(exitCode)
}

func buildPort(dnsServer string, minCacheTTL time.Duration) (spf.DNSPort, error) {
	if dnsServer == "" {
		return dnsresolver.StdPort{}, nil
	}
	opts := []dnsresolver.MiekgOption{dnsresolver.WithCache(newMemoryCache())}
	if minCacheTTL > 0 {
		opts = append(opts, dnsresolver.WithMinSaneTTL(minCacheTTL))
	}
	miekg, err := dnsresolver.NewMiekgPort(dnsServer, opts...)
	if err != nil {
		return nil, err
	}
	return dnsresolver.NewRetryPort(miekg), nil
}

func presenter(detail bool) spf.Presenter {
	if detail {
		return printer.NewColorableStdout()
	}
	return printer.New(os.Stdout)
}

// exitTrackingPresenter forwards to an inner spf.Presenter while tracking
// whether any Error-severity diagnostic was reported, so main can set the
// process exit code per spec.md §6.
type exitTrackingPresenter struct {
	spf.Presenter
	exitCode *int
}

func (p *exitTrackingPresenter) Error(d *spf.Diagnostic) {
	if d.Severity != spf.SeverityWarning {
		*p.exitCode = 1
	}
	p.Presenter.Error(d)
}
