package main

import (
	"testing"
	"time"

	"github.com/inboxguard/spfaudit/dnsresolver"
)

func TestBuildPortDefaultsToStdPort(t *testing.T) {
	port, err := buildPort("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := port.(dnsresolver.StdPort); !ok {
		t.Fatalf("want dnsresolver.StdPort, got %T", port)
	}
}

func TestBuildPortWithServerWrapsRetry(t *testing.T) {
	port, err := buildPort("127.0.0.1:53", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := port.(*dnsresolver.RetryPort); !ok {
		t.Fatalf("want *dnsresolver.RetryPort, got %T", port)
	}
}

func TestBuildPortRejectsMissingPort(t *testing.T) {
	if _, err := buildPort("8.8.8.8", 0); err == nil {
		t.Fatal("want error for a DNS server address missing a port")
	}
}
