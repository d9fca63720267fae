package throttle

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllow_FixedWindow(t *testing.T) {
	th := New(3, time.Hour)
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	now := start
	th.now = func() time.Time { return now }

	for i := 2; i >= 0; i-- {
		q := th.Allow("u1")
		require.True(t, q.Allowed)
		assert.Equal(t, i, q.Remaining)
		assert.Equal(t, start.Add(time.Hour), q.ResetAt)
	}

	now = start.Add(30 * time.Minute)
	q := th.Allow("u1")
	assert.False(t, q.Allowed)
	assert.Zero(t, q.Remaining)
	assert.Equal(t, start.Add(time.Hour), q.ResetAt)

	assert.True(t, th.Allow("u2").Allowed, "identities are independent")

	now = start.Add(time.Hour)
	q = th.Allow("u1")
	assert.True(t, q.Allowed, "window resets lazily")
	assert.Equal(t, 2, q.Remaining)
	assert.Equal(t, now.Add(time.Hour), q.ResetAt)
}

func TestPeek(t *testing.T) {
	th := New(2, time.Minute)
	assert.Equal(t, 2, th.Peek("u").Remaining)
	th.Allow("u")
	assert.Equal(t, 1, th.Peek("u").Remaining)
	assert.Equal(t, 1, th.Peek("u").Remaining, "peek does not consume")
}

func TestAllow_Concurrent(t *testing.T) {
	th := New(50, time.Minute)
	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if th.Allow("u").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}
