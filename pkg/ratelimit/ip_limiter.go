package ratelimit

import (
	"sync"
	"time"
)

// IPRateLimiter tracks one token bucket per client IP
type IPRateLimiter struct {
	buckets    map[string]*ipBucket
	maxTokens  float64
	refillRate float64
	mutex      sync.Mutex
	stopChan   chan struct{}
}

type ipBucket struct {
	bucket   *TokenBucket
	lastSeen time.Time
}

// NewIPRateLimiter creates a per-IP rate limiter and starts a background
// sweep that drops buckets idle for more than an hour
func NewIPRateLimiter(maxTokens float64, refillRate float64) *IPRateLimiter {
	l := &IPRateLimiter{
		buckets:    make(map[string]*ipBucket),
		maxTokens:  maxTokens,
		refillRate: refillRate,
		stopChan:   make(chan struct{}),
	}

	go l.cleanupLoop()

	return l
}

// Allow checks whether a request from the given IP may proceed
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mutex.Lock()

	b, exists := l.buckets[ip]

	if !exists {
		b = &ipBucket{bucket: NewTokenBucket(l.maxTokens, l.refillRate)}
		l.buckets[ip] = b
	}

	b.lastSeen = time.Now()
	l.mutex.Unlock()

	return b.bucket.Allow()
}

func (l *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-1 * time.Hour)

			l.mutex.Lock()
			for ip, b := range l.buckets {
				if b.lastSeen.Before(cutoff) {
					delete(l.buckets, ip)
				}
			}
			l.mutex.Unlock()
		case <-l.stopChan:
			return
		}
	}
}

// Stop terminates the background cleanup goroutine
func (l *IPRateLimiter) Stop() {
	close(l.stopChan)
}
