package ratelimiter

import (
	"sync"
	"time"
)

type clientWindow struct {
	count int
	reset time.Time
}

// FixedWindowRateLimiter counts requests per key inside windows that open
// on the key's first request.
type FixedWindowRateLimiter struct {
	sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewFixedWindowLimiter(limit int, window time.Duration) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]*clientWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

func (rateLimit *FixedWindowRateLimiter) Allow(key string) (bool, time.Duration) {
	rateLimit.Lock()
	defer rateLimit.Unlock()

	now := rateLimit.now()
	w, ok := rateLimit.clients[key]
	if !ok || !now.Before(w.reset) {
		rateLimit.sweep(now)
		rateLimit.clients[key] = &clientWindow{count: 1, reset: now.Add(rateLimit.window)}
		return true, 0
	}

	if w.count < rateLimit.limit {
		w.count++
		return true, 0
	}

	return false, w.reset.Sub(now)
}

// sweep drops expired windows so idle keys do not accumulate.
func (rateLimit *FixedWindowRateLimiter) sweep(now time.Time) {
	for key, w := range rateLimit.clients {
		if !now.Before(w.reset) {
			delete(rateLimit.clients, key)
		}
	}
}
