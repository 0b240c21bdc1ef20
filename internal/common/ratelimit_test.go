package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeyedRateLimiter_BurstThenDeny(t *testing.T) {
	limiter := NewKeyedRateLimiter(1, time.Minute, 2, time.Hour)
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return fixed }

	assert.True(t, limiter.Allow("user:1"))
	assert.True(t, limiter.Allow("user:1"))
	assert.False(t, limiter.Allow("user:1"))

	// other keys have their own bucket
	assert.True(t, limiter.Allow("user:2"))
}

func TestKeyedRateLimiter_RefillsOverTime(t *testing.T) {
	limiter := NewKeyedRateLimiter(1, time.Minute, 1, time.Hour)
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	assert.True(t, limiter.Allow("user:1"))
	assert.False(t, limiter.Allow("user:1"))

	current = current.Add(time.Minute)
	assert.True(t, limiter.Allow("user:1"))
}

func TestKeyedRateLimiter_ExpiresIdleKeys(t *testing.T) {
	limiter := NewKeyedRateLimiter(1, time.Minute, 1, time.Minute)
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	limiter.Allow("user:1")
	current = current.Add(2 * time.Minute)
	limiter.Allow("user:2")

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	_, stillThere := limiter.visitors["user:1"]
	assert.False(t, stillThere)
}

func TestUserKey(t *testing.T) {
	assert.Equal(t, "user:42", UserKey(42))
}
