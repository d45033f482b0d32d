// Package validation guards the feed server's public surface: a per-address
// token bucket throttles connection attempts so a misbehaving client cannot
// churn upgrade handshakes.
package validation

import (
	"sync"
	"time"
)

// RateLimiter is a token-bucket limiter keyed by client address.
type RateLimiter struct {
	maxAttempts int
	window      time.Duration
	clients     map[string]*bucket
	mu          sync.RWMutex
	cleanupTick *time.Ticker
	done        chan struct{}
}

type bucket struct {
	tokens     int
	lastRefill time.Time
	maxTokens  int
	window     time.Duration
	mu         sync.Mutex
}

// NewRateLimiter creates a limiter allowing maxAttempts per window for each
// distinct client key.
func NewRateLimiter(maxAttempts int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		clients:     make(map[string]*bucket),
		done:        make(chan struct{}),
	}

	rl.cleanupTick = time.NewTicker(window)
	go rl.cleanup()

	return rl
}

// Allow reports whether the client may make another attempt now.
func (rl *RateLimiter) Allow(clientKey string) bool {
	rl.mu.RLock()
	b, exists := rl.clients[clientKey]
	rl.mu.RUnlock()

	if !exists {
		b = &bucket{
			tokens:     rl.maxAttempts,
			lastRefill: time.Now(),
			maxTokens:  rl.maxAttempts,
			window:     rl.window,
		}
		rl.mu.Lock()
		rl.clients[clientKey] = b
		rl.mu.Unlock()
	}

	return b.consume()
}

func (b *bucket) consume() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()

	// Refill proportionally to the elapsed fraction of the window.
	elapsed := now.Sub(b.lastRefill)
	if elapsed > 0 && b.tokens < b.maxTokens {
		windowsPassed := float64(elapsed) / float64(b.window)
		tokensToAdd := int(float64(b.maxTokens) * windowsPassed)

		if tokensToAdd > 0 {
			b.tokens += tokensToAdd
			if b.tokens > b.maxTokens {
				b.tokens = b.maxTokens
			}
			b.lastRefill = now
		}
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

func (rl *RateLimiter) cleanup() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.removeInactive()
		case <-rl.done:
			return
		}
	}
}

// removeInactive drops buckets idle for two full windows.
func (rl *RateLimiter) removeInactive() {
	cutoff := time.Now().Add(-2 * rl.window)

	rl.mu.Lock()
	for key, b := range rl.clients {
		b.mu.Lock()
		if b.lastRefill.Before(cutoff) {
			delete(rl.clients, key)
		}
		b.mu.Unlock()
	}
	rl.mu.Unlock()
}

// Close stops the cleanup goroutine.
func (rl *RateLimiter) Close() {
	close(rl.done)
	rl.cleanupTick.Stop()
}
