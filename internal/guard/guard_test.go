package guard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		res := rl.Check(ctx, "user-a")
		assert.True(t, res.Allowed, "request %d should pass", i)
	}

	res := rl.Check(ctx, "user-a")
	assert.False(t, res.Allowed)
	assert.Equal(t, "rate_limiter", res.Guard)

	// other keys are unaffected
	assert.True(t, rl.Check(ctx, "user-b").Allowed)
}

func TestRateLimiterWindowExpiry(t *testing.T) {
	ctx := context.Background()
	rl := NewRateLimiter(1, 10*time.Millisecond)

	assert.True(t, rl.Check(ctx, "k").Allowed)
	assert.False(t, rl.Check(ctx, "k").Allowed)

	time.Sleep(15 * time.Millisecond)
	assert.True(t, rl.Check(ctx, "k").Allowed)
}
