package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustsAndResets(t *testing.T) {
	// refill rate of zero keeps the test deterministic
	bucket := NewTokenBucket(3, 0)

	assert.True(t, bucket.Allow())
	assert.True(t, bucket.Allow())
	assert.True(t, bucket.Allow())
	assert.False(t, bucket.Allow())

	bucket.Reset()
	assert.True(t, bucket.Allow())
}

func TestTokenBucketAllowN(t *testing.T) {
	bucket := NewTokenBucket(5, 0)

	assert.True(t, bucket.AllowN(5))
	assert.False(t, bucket.AllowN(1))
}

func TestIPRateLimiterStopTerminatesCleanup(t *testing.T) {
	limiter := NewIPRateLimiter(1, 0)

	done := make(chan struct{})

	go func() {
		limiter.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}

	// existing buckets keep answering after Stop
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
}

func TestIPRateLimiterIsolatesClients(t *testing.T) {
	limiter := NewIPRateLimiter(1, 0)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))

	// a different client gets its own bucket
	assert.True(t, limiter.Allow("10.0.0.2"))
}
