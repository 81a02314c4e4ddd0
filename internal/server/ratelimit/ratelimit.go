// Package ratelimit provides per-client token bucket rate limiting.
package ratelimit

import (
	"sync"
	"time"
)

// tokenBucket refills continuously at refillRate up to capacity.
type tokenBucket struct {
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	lastUsed   time.Time
	mu         sync.Mutex
}

func newTokenBucket(capacity int, refillRate float64, now time.Time) *tokenBucket {
	return &tokenBucket{
		capacity:   float64(capacity),
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: now,
		lastUsed:   now,
	}
}

func (tb *tokenBucket) refill(now time.Time) {
	if elapsed := now.Sub(tb.lastRefill).Seconds(); elapsed > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+elapsed*tb.refillRate)
	}
	tb.lastRefill = now
}

// take consumes a token if one is available and reports the bucket state
// afterwards.
func (tb *tokenBucket) take(now time.Time) (allowed bool, remaining int, full time.Time, next time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(now)
	tb.lastUsed = now
	if tb.tokens >= 1 {
		tb.tokens--
		allowed = true
	}

	remaining = int(tb.tokens)
	full = now
	if missing := tb.capacity - tb.tokens; missing > 0 && tb.refillRate > 0 {
		full = now.Add(seconds(missing / tb.refillRate))
	}
	if !allowed && tb.refillRate > 0 {
		next = seconds((1 - tb.tokens) / tb.refillRate)
	}
	return allowed, remaining, full, next
}

func (tb *tokenBucket) idleSince() time.Time {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.lastUsed
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// Info describes the rate limit state after a request.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter keeps one bucket per client and route.
type Limiter struct {
	config *Config
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]*tokenBucket

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewLimiter creates a limiter. A nil config uses DefaultConfig. When
// cleanup is configured a background goroutine runs until Stop.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}

	l := &Limiter{
		config:  config,
		now:     time.Now,
		buckets: make(map[string]*tokenBucket),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	} else {
		close(l.done)
	}
	return l
}

// Allow reports whether a request from clientID to path may proceed.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	ep := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if ep == nil {
		ep = &EndpointConfig{
			Path:   "*",
			Method: method,
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
		}
	}
	if ep.Limit <= 0 || ep.Window <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	// Prefix routes share one bucket for every path below them.
	bucket := l.bucket(clientID+" "+method+" "+ep.Path, ep, now)
	allowed, remaining, full, retry := bucket.take(now)

	return allowed, Info{
		Allowed:    allowed,
		Limit:      ep.Limit,
		Remaining:  remaining,
		ResetTime:  full,
		RetryAfter: retry,
	}
}

func (l *Limiter) bucket(key string, ep *EndpointConfig, now time.Time) *tokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets[key]; ok {
		return b
	}
	capacity := ep.Burst
	if capacity <= 0 {
		capacity = ep.Limit
	}
	b := newTokenBucket(capacity, float64(ep.Limit)/ep.Window.Seconds(), now)
	l.buckets[key] = b
	return b
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	defer close(l.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-l.stop:
			return
		}
	}
}

// Sweep drops buckets idle for longer than IdleTTL and returns how many
// were removed.
func (l *Limiter) Sweep() int {
	ttl := l.config.IdleTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	cutoff := l.now().Add(-ttl)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, b := range l.buckets {
		if b.idleSince().Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Len is the number of live buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop ends the cleanup goroutine and waits for it. It is safe to call more
// than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
	<-l.done
}
