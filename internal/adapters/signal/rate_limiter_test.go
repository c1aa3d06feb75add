package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJoinRateLimiter_Allow(t *testing.T) {
	rl := NewJoinRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("c1"))
	assert.True(t, rl.Allow("c1"))
	assert.False(t, rl.Allow("c1"), "third join inside the window is blocked")

	// Separate connections get separate windows.
	assert.True(t, rl.Allow("c2"))
}

func TestJoinRateLimiter_Disabled(t *testing.T) {
	rl := NewJoinRateLimiter(0, time.Minute)
	for range 100 {
		assert.True(t, rl.Allow("c1"))
	}
}

func TestJoinRateLimiter_Forget(t *testing.T) {
	rl := NewJoinRateLimiter(1, time.Minute)

	assert.True(t, rl.Allow("c1"))
	assert.False(t, rl.Allow("c1"))

	rl.Forget("c1")
	assert.True(t, rl.Allow("c1"), "history cleared with the connection")
}
