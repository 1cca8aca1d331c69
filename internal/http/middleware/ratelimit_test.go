package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_EnforcesLimitPerKey(t *testing.T) {
	limiter := NewRateLimiter()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("apply:a", 3, time.Minute))
	}
	assert.False(t, limiter.Allow("apply:a", 3, time.Minute))

	// Other keys are unaffected.
	assert.True(t, limiter.Allow("apply:b", 3, time.Minute))
}

func TestRateLimiter_WindowResets(t *testing.T) {
	limiter := NewRateLimiter()

	assert.True(t, limiter.Allow("k", 1, 10*time.Millisecond))
	assert.False(t, limiter.Allow("k", 1, 10*time.Millisecond))
	time.Sleep(15 * time.Millisecond)
	assert.True(t, limiter.Allow("k", 1, 10*time.Millisecond))
}
