package verifier

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"
)

// MXRecord is a single mail exchanger with its preference value.
type MXRecord struct {
	Priority uint16 `json:"priority"`
	Host     string `json:"host"`
}

// MXCheck is the outcome of resolving a domain's mail exchangers.
// Hosts is ordered ascending by priority. When the domain has an A record
// but no MX records, the domain itself is used as the sole host at
// priority 0.
type MXCheck struct {
	Valid   bool       `json:"valid"`
	Hosts   []string   `json:"mx_hosts"`
	Records []MXRecord `json:"mx_details,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// Resolver is the DNS capability the verifier needs: MX resolution plus
// raw TXT lookups for the policy checks.
type Resolver interface {
	CheckMX(ctx context.Context, domain string) MXCheck
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

// NetResolver resolves through the system resolver with a fixed
// per-query timeout.
type NetResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

func NewNetResolver(timeout time.Duration) *NetResolver {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &NetResolver{
		resolver: &net.Resolver{},
		timeout:  timeout,
	}
}

// CheckMX resolves the domain's MX records sorted by preference. A domain
// that answers with an A record but no MX records is treated as its own
// mail host. Resolution failures are reported in the result, never as an
// error value, so a dead domain downgrades to invalid instead of aborting
// the verification.
func (r *NetResolver) CheckMX(ctx context.Context, domain string) MXCheck {
	qctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	records, err := r.resolver.LookupMX(qctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) {
			if dnsErr.IsTimeout {
				return MXCheck{Error: "DNS lookup timed out"}
			}
			if dnsErr.IsNotFound {
				// NXDOMAIN and an empty answer both land here; a
				// host with an A record can still receive mail on
				// the bare domain.
				return r.fallbackToHost(ctx, domain)
			}
		}
		return MXCheck{Error: fmt.Sprintf("DNS lookup failed: %v", err)}
	}

	if len(records) == 0 {
		return r.fallbackToHost(ctx, domain)
	}

	sorted := sortMXRecords(records)
	hosts := make([]string, 0, len(sorted))
	for _, rec := range sorted {
		hosts = append(hosts, rec.Host)
	}

	return MXCheck{
		Valid:   true,
		Hosts:   hosts,
		Records: sorted,
	}
}

// fallbackToHost checks for an A record on the bare domain and, if
// present, treats the domain as the sole mail host at priority 0.
func (r *NetResolver) fallbackToHost(ctx context.Context, domain string) MXCheck {
	qctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	addrs, err := r.resolver.LookupHost(qctx, domain)
	if err != nil || len(addrs) == 0 {
		return MXCheck{Error: "Domain does not exist"}
	}
	return MXCheck{
		Valid:   true,
		Hosts:   []string{domain},
		Records: []MXRecord{{Priority: 0, Host: domain}},
	}
}

func (r *NetResolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	qctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.resolver.LookupTXT(qctx, name)
}

// sortMXRecords orders records ascending by preference, preserving the
// resolver's order among equal preferences, and strips trailing dots.
func sortMXRecords(records []*net.MX) []MXRecord {
	out := make([]MXRecord, 0, len(records))
	for _, mx := range records {
		host := strings.TrimSuffix(mx.Host, ".")
		if host == "" {
			continue
		}
		out = append(out, MXRecord{Priority: mx.Pref, Host: host})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}
