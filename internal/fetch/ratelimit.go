package fetch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lpellaton/jobscout/internal/metrics"
)

// DomainGate serializes requests per domain so the wall-clock gap between
// any two requests to the same host stays at or above the configured delay.
// State is process-wide and shared by every source adapter; it resets on
// restart.
type DomainGate struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	interval time.Duration
}

// NewDomainGate builds a gate with the given minimum interval.
func NewDomainGate(interval time.Duration) *DomainGate {
	return &DomainGate{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
	}
}

// Wait blocks until the domain's interval has elapsed, respecting the
// context. Concurrent callers for the same domain queue on the limiter;
// x/time/rate hands out reservations in request order, so no caller starves.
func (g *DomainGate) Wait(ctx context.Context, domain string) error {
	key := strings.ToLower(domain)

	g.mu.Lock()
	limiter, ok := g.limiters[key]
	if !ok {
		lim := rate.Inf
		if g.interval > 0 {
			lim = rate.Every(g.interval)
		}
		limiter = rate.NewLimiter(lim, 1)
		g.limiters[key] = limiter
	}
	g.mu.Unlock()

	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("domain gate wait: %w", err)
	}
	if waited := time.Since(start); waited > time.Millisecond {
		metrics.ObserveRateLimitDelay(key, waited)
	}
	return nil
}
