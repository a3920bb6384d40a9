package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type keyedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter is a keyed token-bucket limiter. Keys unused for idleTTL are dropped by Run.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*keyedLimiter
	r        rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

// New allows r events per second per key with bursts up to burst.
func New(r rate.Limit, burst int, idleTTL time.Duration) *Limiter {
	return &Limiter{
		limiters: make(map[string]*keyedLimiter),
		r:        r,
		burst:    burst,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// NewMinInterval allows one event per key every interval.
func NewMinInterval(interval time.Duration) *Limiter {
	return New(rate.Every(interval), 1, 2*interval)
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if v, ok := l.limiters[key]; ok {
		v.lastSeen = l.now()
		return v.limiter
	}
	lim := rate.NewLimiter(l.r, l.burst)
	l.limiters[key] = &keyedLimiter{limiter: lim, lastSeen: l.now()}
	return lim
}

func (l *Limiter) Allow(key string) bool {
	return l.get(key).AllowN(l.now(), 1)
}

// Reserve takes a token for key if one is available now. Calling cancel
// returns the token, so a caller can charge only for work that succeeded.
func (l *Limiter) Reserve(key string) (cancel func(), ok bool) {
	now := l.now()
	r := l.get(key).ReserveN(now, 1)
	if !r.OK() {
		return func() {}, false
	}
	if r.DelayFrom(now) > 0 {
		r.CancelAt(now)
		return func() {}, false
	}
	// CancelAt only refunds when given a time no later than the reservation's.
	return func() { r.CancelAt(now) }, true
}

// Len reports the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, v := range l.limiters {
		if l.now().Sub(v.lastSeen) > l.idleTTL {
			delete(l.limiters, key)
		}
	}
}

// Run drops idle keys every interval until ctx is cancelled.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cleanup()
		}
	}
}
