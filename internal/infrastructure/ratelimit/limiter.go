// Package ratelimit throttles outbound calls independently per provider.
package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter blocks until a call to the provider is allowed or ctx is done
type Limiter interface {
	Wait(ctx context.Context, provider string) error
}

// Limit is the rate configured for one provider
type Limit struct {
	RPS   float64
	Burst int
}

// Local is an in-process token bucket per provider.
// Providers without a configured limit are not throttled.
type Local struct {
	mu       sync.Mutex
	limits   map[string]Limit
	limiters map[string]*rate.Limiter
}

// NewLocal creates a local limiter from per-provider limits
func NewLocal(limits map[string]Limit) *Local {
	return &Local{
		limits:   limits,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Wait blocks until the provider's bucket has a token
func (l *Local) Wait(ctx context.Context, provider string) error {
	lim := l.get(provider)
	if lim == nil {
		return nil
	}
	return lim.Wait(ctx)
}

func (l *Local) get(provider string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters[provider]; ok {
		return lim
	}
	cfg, ok := l.limits[provider]
	if !ok || cfg.RPS <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	lim := rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	l.limiters[provider] = lim
	return lim
}

// Limits builds the per-provider limit table from the RPS and burst maps
func Limits(rps map[string]float64, burst map[string]int) map[string]Limit {
	out := make(map[string]Limit, len(rps))
	for provider, r := range rps {
		out[provider] = Limit{RPS: r, Burst: burst[provider]}
	}
	return out
}

// Noop never throttles
type Noop struct{}

// Wait returns immediately
func (Noop) Wait(ctx context.Context, _ string) error {
	return ctx.Err()
}
