// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimiter throttles the admin API per client IP with a sliding window,
// so a leaked URL cannot be used to guess the bearer token. Rejected and
// unauthenticated requests count toward the limit like any other.
type RateLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
	stopCh chan struct{}
	once   sync.Once
}

// NewRateLimiter allows limit requests per window for each client. Idle
// clients are forgotten once per window by a background sweep until Stop.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.sweep()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Stop ends the background sweep. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stopCh) })
}

// take records a request from client. When the client is over the limit it
// records nothing and returns how long until its oldest request leaves the
// window.
func (rl *RateLimiter) take(client string) (bool, time.Duration) {
	now := rl.now()
	rl.mu.Lock()
	defer rl.mu.Unlock()

	recent := live(rl.hits[client], now.Add(-rl.window))
	if len(recent) >= rl.limit {
		rl.hits[client] = recent
		return false, recent[0].Add(rl.window).Sub(now)
	}
	rl.hits[client] = append(recent, now)
	return true, 0
}

// sweep drops clients with no request inside the window.
func (rl *RateLimiter) sweep() {
	cutoff := rl.now().Add(-rl.window)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for client, ts := range rl.hits {
		if len(live(ts, cutoff)) == 0 {
			delete(rl.hits, client)
		}
	}
}

// live drops the leading timestamps at or before cutoff. ts is in
// arrival order.
func live(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	return ts[i:]
}

// Middleware rejects clients over the limit with 429 and a Retry-After in
// whole seconds, rounded up.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, wait := rl.take(clientIP(r))
		if !allowed {
			secs := max(1, int(math.Ceil(wait.Seconds())))
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeError(w, http.StatusTooManyRequests, "Too many requests, slow down.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP returns the originating client address: the first hop of
// X-Forwarded-For, then X-Real-IP, then the connection's host.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
