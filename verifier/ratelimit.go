package verifier

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterManager throttles outbound SMTP probes with a global token
// bucket plus one bucket per target domain. It carries no verification
// state; it only shapes traffic so busy exchangers don't blocklist the
// prober's IP.
type RateLimiterManager struct {
	global     *rate.Limiter
	perDomain  rate.Limit
	domains    map[string]*rate.Limiter
	mu         sync.RWMutex
}

// NewRateLimiterManager builds a manager allowing globalPerSec probes
// overall and domainPerSec per domain, each with a burst equal to its
// rate.
func NewRateLimiterManager(globalPerSec, domainPerSec int) *RateLimiterManager {
	if globalPerSec <= 0 {
		globalPerSec = 10
	}
	if domainPerSec <= 0 {
		domainPerSec = 5
	}
	return &RateLimiterManager{
		global:    rate.NewLimiter(rate.Limit(globalPerSec), globalPerSec),
		perDomain: rate.Limit(domainPerSec),
		domains:   make(map[string]*rate.Limiter),
	}
}

// Wait blocks until both the global and the domain bucket allow a probe,
// or the context is cancelled.
func (m *RateLimiterManager) Wait(ctx context.Context, domain string) error {
	if err := m.global.Wait(ctx); err != nil {
		return err
	}
	return m.limiterFor(strings.ToLower(domain)).Wait(ctx)
}

func (m *RateLimiterManager) limiterFor(domain string) *rate.Limiter {
	m.mu.RLock()
	limiter, ok := m.domains[domain]
	m.mu.RUnlock()
	if ok {
		return limiter
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if limiter, ok = m.domains[domain]; !ok {
		limiter = rate.NewLimiter(m.perDomain, int(m.perDomain))
		m.domains[domain] = limiter
	}
	return limiter
}
