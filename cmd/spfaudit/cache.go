package main

import (
	"github.com/outcaste-io/ristretto"

	"github.com/inboxguard/spfaudit/dnsresolver/z"
)

// newMemoryCache builds the ristretto-backed cache dnsresolver.MiekgPort
// expects, sized for a single audit run rather than a long-lived server.
func newMemoryCache() *ristretto.Cache {
	return z.MustRistrettoCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 23,
		BufferItems: 64,
		KeyToHash:   z.QuestionToHash,
		Cost:        z.MsgCost,
	})
}
