package dnsresolver

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/miekg/dns"
)

// CacheDump is a JSON-serializable snapshot of a MiekgPort's response
// cache: a map from the cached dns.Question to the dns.Msg answer it
// resolved to. It exists so a long-lived auditing process can warm a
// fresh cache from a dump assembled out-of-band instead of re-querying
// every domain from scratch (see Load).
type CacheDump map[interface{}]interface{}

// MarshalJSON renders the dump as an array of base64-encoded wire-format
// messages, each annotated with a ";name class type" comment string for
// human readability — the same layout `dig`/BIND zone dumps use.
func (c CacheDump) MarshalJSON() ([]byte, error) {
	var bb bytes.Buffer

	if c == nil {
		bb.WriteString("null")
		return bb.Bytes(), nil
	}
	longestName := 0
	for _, v := range c {
		msg, ok := v.(*dns.Msg)
		if !ok {
			return nil, errors.New("value is not a *dns.Msg")
		}
		if len(msg.Question) > 0 && len(msg.Question[0].Name) > longestName {
			longestName = len(msg.Question[0].Name)
		}
	}

	bb.WriteByte('[')
	bb.WriteByte('\n')
	i := 0
	for _, v := range c {
		if i > 0 {
			bb.WriteByte(',')
			bb.WriteByte('\n')
		}
		msg, _ := v.(*dns.Msg)

		b, err := msg.Pack()
		if err != nil {
			return nil, err
		}

		bb.WriteByte('"')
		if len(msg.Question) > 0 {
			bb.WriteByte(';')
			q := msg.Question[0]
			bb.WriteString(q.Name)
			bb.Write(bytes.Repeat([]byte{' '}, longestName-len(q.Name)))
			bb.WriteByte(' ')
			bb.WriteString(dns.Class(q.Qclass).String())
			bb.WriteByte(' ')
			typ := dns.Type(q.Qtype).String()
			bb.WriteString(typ)
			bb.WriteString(`", `)
			bb.Write(bytes.Repeat([]byte{' '}, 4-len(typ)))
			bb.WriteByte('"')
		}
		bb.WriteString(base64.StdEncoding.EncodeToString(b))
		bb.WriteByte('"')
		i++
	}
	if i > 0 {
		bb.WriteByte('\n')
	}
	bb.WriteByte(']')
	return bb.Bytes(), nil
}

// UnmarshalJSON parses the format MarshalJSON produces, discarding the
// leading comment strings.
func (c *CacheDump) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}

	var values []string
	if err := json.Unmarshal(b, &values); err != nil {
		return err
	}
	m := make(map[interface{}]interface{})
	for _, v := range values {
		if len(v) > 0 && v[0] == ';' {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return err
		}
		msg := new(dns.Msg)
		if err := msg.Unpack(raw); err != nil {
			return err
		}
		m[msg.Question[0]] = msg
	}
	*c = CacheDump(m)
	return nil
}

// Load seeds p's cache with a previously captured dump, skipping entries
// if p was built without WithCache.
//
// ristretto (unlike the gcache this format was originally built for)
// exposes no key-enumeration API, so there is no corresponding Dump
// method here: a running MiekgPort cannot be snapshotted, only seeded
// from a dump assembled out-of-band (e.g. replayed from query logs).
func (c CacheDump) Load(p *MiekgPort) {
	if p.cache == nil {
		return
	}
	for _, v := range c {
		msg, ok := v.(*dns.Msg)
		if !ok {
			continue
		}
		p.cacheResponse(msg)
	}
}
