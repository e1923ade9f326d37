package middleware

import (
	"net/http"
	"sync"
	"time"
)

// counter is one client's fixed-window request count.
type counter struct {
	hits        int
	windowStart time.Time
}

// RateLimiter throttles per client IP over a fixed window. It guards the
// auth routes against credential and OTP brute force; state is in-process
// only, which is enough for a single server instance.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*counter
	limit   int
	window  time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*counter),
		limit:   limit,
		window:  window,
	}

	// Drop counters whose window has long passed.
	go func() {
		for {
			time.Sleep(window)
			rl.mu.Lock()
			for ip, c := range rl.clients {
				if time.Since(c.windowStart) > 2*rl.window {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()

	return rl
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		now := time.Now()

		rl.mu.Lock()
		c, exists := rl.clients[ip]
		if !exists || now.Sub(c.windowStart) > rl.window {
			rl.clients[ip] = &counter{hits: 1, windowStart: now}
			rl.mu.Unlock()
			next.ServeHTTP(w, r)
			return
		}

		c.hits++
		hits := c.hits
		rl.mu.Unlock()

		if hits > rl.limit {
			writeError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
