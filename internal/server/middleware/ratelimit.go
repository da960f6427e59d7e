package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const tooManyRequestsBody = `{"title":"Too Many Requests","status":429,"detail":"rate limit exceeded"}`

// limiterPool holds one token bucket per caller key and evicts buckets that
// have been idle for 30 minutes so the map cannot grow without bound.
type limiterPool struct {
	mu       sync.Mutex
	limiters map[string]*pooledLimiter
	rps      float64
	burst    int
}

type pooledLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func newLimiterPool(ctx context.Context, requestsPerSecond float64, burst int) *limiterPool {
	p := &limiterPool{
		limiters: make(map[string]*pooledLimiter),
		rps:      requestsPerSecond,
		burst:    burst,
	}

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				p.evictIdle(time.Now().Add(-30 * time.Minute))
			case <-ctx.Done():
				return
			}
		}
	}()

	return p
}

func (p *limiterPool) allow(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	pl, ok := p.limiters[key]
	if !ok {
		pl = &pooledLimiter{limiter: rate.NewLimiter(rate.Limit(p.rps), p.burst)}
		p.limiters[key] = pl
	}
	pl.lastAccess = time.Now()
	return pl.limiter.Allow()
}

func (p *limiterPool) evictIdle(cutoff time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, pl := range p.limiters {
		if pl.lastAccess.Before(cutoff) {
			delete(p.limiters, key)
		}
	}
}

// RateLimitByIP applies per-IP rate limiting for unauthenticated endpoints
// (the payment webhook).
func RateLimitByIP(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	pool := newLimiterPool(ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !pool.allow(r.RemoteAddr) {
				http.Error(w, tooManyRequestsBody, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit applies per-user rate limiting. Requests without a user in
// context pass through; Auth runs first on every route this is mounted on.
func RateLimit(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	pool := newLimiterPool(ctx, requestsPerSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			if !pool.allow(userID.String()) {
				http.Error(w, tooManyRequestsBody, http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
