package dnsresolver

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
	"golang.org/x/sync/singleflight"

	"github.com/inboxguard/spfaudit/dnsresolver/z"
)

// MiekgOption configures a MiekgPort.
type MiekgOption func(*MiekgPort)

// WithCache attaches a response cache (z.MustRistrettoCache builds the
// one this package ships). A nil cache (the default) disables
// caching entirely.
func WithCache(c z.Cache) MiekgOption {
	return func(p *MiekgPort) {
		if c != nil {
			p.cache = c
		}
	}
}

// WithMinSaneTTL floors the TTL a cache entry is kept for, guarding
// against a misconfigured zone publishing a near-zero TTL that would
// otherwise make the cache pointless.
func WithMinSaneTTL(d time.Duration) MiekgOption {
	return func(p *MiekgPort) { p.minSaneTTL = d }
}

// WithDNSClient overrides the github.com/miekg/dns client used for a
// given network ("udp" or "tcp").
func WithDNSClient(c *dns.Client) MiekgOption {
	return func(p *MiekgPort) {
		if c != nil {
			p.clients[c.Net] = c
		}
	}
}

// MiekgPort implements spf.DNSPort by speaking the DNS wire protocol
// directly via github.com/miekg/dns against a single configured server,
// optionally caching responses and always collapsing concurrent
// identical in-flight queries onto a single upstream exchange.
type MiekgPort struct {
	mu         sync.Mutex
	clients    map[string]*dns.Client
	server     string
	cache      z.Cache
	minSaneTTL time.Duration
	group      singleflight.Group
}

// NewMiekgPort returns a MiekgPort that sends queries to server (host:port).
func NewMiekgPort(server string, opts ...MiekgOption) (*MiekgPort, error) {
	if _, _, err := net.SplitHostPort(server); err != nil {
		return nil, err
	}
	p := &MiekgPort{
		clients: map[string]*dns.Client{
			"udp": {Net: "udp"},
			"tcp": {Net: "tcp"},
		},
		server: server,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *MiekgPort) QueryTXT(ctx context.Context, name string) ([]string, error) {
	res, err := p.exchange(ctx, name, dns.TypeTXT)
	if err != nil {
		return nil, err
	}
	txts := make([]string, 0, len(res.Answer))
	for _, a := range res.Answer {
		if rr, ok := a.(*dns.TXT); ok {
			txts = append(txts, unescapeSpaces(strings.Join(rr.Txt, "")))
		}
	}
	return txts, nil
}

func (p *MiekgPort) QueryA(ctx context.Context, name string) ([]net.IP, error) {
	var ips []net.IP
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		res, err := p.exchange(ctx, name, qtype)
		if err != nil {
			return nil, err
		}
		for _, a := range res.Answer {
			switch rr := a.(type) {
			case *dns.A:
				ips = append(ips, rr.A)
			case *dns.AAAA:
				ips = append(ips, rr.AAAA)
			}
		}
	}
	return ips, nil
}

func (p *MiekgPort) QueryMX(ctx context.Context, name string) ([]string, error) {
	res, err := p.exchange(ctx, name, dns.TypeMX)
	if err != nil {
		return nil, err
	}
	hosts := make([]string, 0, len(res.Answer))
	for _, a := range res.Answer {
		if rr, ok := a.(*dns.MX); ok {
			hosts = append(hosts, rr.Mx)
		}
	}
	return hosts, nil
}

func (p *MiekgPort) cachedResponse(q dns.Question) (*dns.Msg, bool) {
	if p.cache == nil {
		return nil, false
	}
	v, found := p.cache.Get(q)
	if !found {
		return nil, false
	}
	return v.(*dns.Msg), true
}

const maxUint32 = 1<<32 - 1

func (p *MiekgPort) cacheResponse(res *dns.Msg) {
	if p.cache == nil || len(res.Question) == 0 {
		return
	}
	if len(res.Answer) == 0 {
		p.cache.SetWithTTL(res.Question[0], res, int64(res.Len()), 60*time.Second)
		return
	}
	var ttl uint32 = maxUint32
	for _, a := range res.Answer {
		if d := a.Header().Ttl; d < ttl {
			ttl = d
		}
	}
	d := time.Duration(ttl) * time.Second
	if p.minSaneTTL > 0 && d < p.minSaneTTL {
		d = p.minSaneTTL
	}
	p.cache.SetWithTTL(res.Question[0], res, int64(res.Len()), d)
}

// exchange runs req through the cache, then singleflight, then the wire
// client, following the same "try RCODE 3 as empty, anything else as
// temporary" classification as StdPort.
func (p *MiekgPort) exchange(ctx context.Context, name string, qtype uint16) (*dns.Msg, error) {
	q := dns.Question{Name: dns.Fqdn(name), Qtype: qtype, Qclass: dns.ClassINET}

	if res, found := p.cachedResponse(q); found {
		return res, nil
	}

	key := q.Name + "|" + dns.TypeToString[q.Qtype]
	v, err, _ := p.group.Do(key, func() (any, error) {
		return p.exchangeUncached(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return v.(*dns.Msg), nil
}

func (p *MiekgPort) exchangeUncached(ctx context.Context, q dns.Question) (*dns.Msg, error) {
	req := new(dns.Msg)
	req.SetQuestion(q.Name, q.Qtype)

	p.mu.Lock()
	defer p.mu.Unlock()

	var (
		res *dns.Msg
		err error
	)
	for _, net := range []string{"udp", "tcp"} {
		client, ok := p.clients[net]
		if !ok {
			continue
		}
		res, _, err = client.ExchangeContext(ctx, req, p.server)
		if nerr, ok := err.(interface{ Timeout() bool }); ok && nerr.Timeout() {
			continue
		}
		if err == nil && res.Truncated {
			continue
		}
		break
	}
	if err != nil {
		return nil, ErrTemporary
	}
	if res.Rcode == dns.RcodeNameError {
		empty := new(dns.Msg)
		empty.Question = []dns.Question{q}
		return empty, nil
	}
	if res.Rcode != dns.RcodeSuccess {
		return nil, ErrTemporary
	}
	p.cacheResponse(res)
	return res, nil
}
