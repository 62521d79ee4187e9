package crawl

import (
	"context"
	"sync"

	"github.com/jkowalik/sitesnap"
	"golang.org/x/time/rate"
)

var _ sitesnap.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter enforces per-domain politeness using token buckets.
// Each domain gets its own limiter, so concurrent requests to different
// subdomains proceed independently while requests within a domain are
// paced.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter creates a DomainLimiter allowing rps requests per
// second per domain with no bursting.
func NewDomainLimiter(rps float64) *DomainLimiter {
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(rps),
	}
}

// Wait blocks until the rate limit allows a request to the domain.
// Returns an error if the context is canceled before a token is available.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
