package verifier

import (
	"context"
	"math/rand"
)

// CatchAll records whether a domain accepts mail for any local part,
// detected by probing a random address that almost certainly does not
// exist. A skipped or inconclusive probe leaves IsCatchAll false, which
// upstream reads as "unknown", not as proof the domain is strict.
type CatchAll struct {
	IsCatchAll bool   `json:"is_catchall"`
	ProbeEmail string `json:"test_email"`
}

const (
	probeLocalLength = 15
	probeAlphabet    = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// randomLocalPart is the default randomness source for catch-all probe
// addresses; the verifier accepts a replacement for deterministic tests.
func randomLocalPart(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = probeAlphabet[rand.Intn(len(probeAlphabet))]
	}
	return string(b)
}

// detectCatchAll probes a high-entropy random address on the domain. An
// accept means the server cannot distinguish real from fake recipients.
func (v *Verifier) detectCatchAll(ctx context.Context, domain string, hosts []string) CatchAll {
	probeEmail := v.randomLocal(probeLocalLength) + "@" + domain
	probe := v.prober.Probe(ctx, probeEmail, domain, hosts)
	return CatchAll{
		IsCatchAll: probe.Accepted,
		ProbeEmail: probeEmail,
	}
}
