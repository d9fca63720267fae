// Package throttle implements a per-identity fixed-window request quota.
package throttle

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Quota is the outcome of one Allow call.
type Quota struct {
	Allowed   bool      `json:"allowed"`
	Limit     int       `json:"limit"`
	Remaining int       `json:"remaining"`
	ResetAt   time.Time `json:"reset_at"`
}

type window struct {
	count   int
	resetAt time.Time
}

// Throttle allows limit calls per identity in each window. A window starts with the
// first call after the previous one ended.
type Throttle struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	windows *cache.Cache
	now     func() time.Time
}

// New creates a throttle. Expired windows are purged in the background.
func New(limit int, window time.Duration) *Throttle {
	return &Throttle{
		limit:   limit,
		window:  window,
		windows: cache.New(window, 2*window),
		now:     time.Now,
	}
}

// Allow consumes one call for identity.
func (t *Throttle) Allow(identity string) Quota {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	w := t.current(identity, now)
	if w.count >= t.limit {
		return Quota{Allowed: false, Limit: t.limit, Remaining: 0, ResetAt: w.resetAt}
	}
	w.count++
	return Quota{Allowed: true, Limit: t.limit, Remaining: t.limit - w.count, ResetAt: w.resetAt}
}

// Peek returns identity's quota without consuming a call.
func (t *Throttle) Peek(identity string) Quota {
	t.mu.Lock()
	defer t.mu.Unlock()

	w := t.current(identity, t.now())
	remaining := t.limit - w.count
	return Quota{Allowed: remaining > 0, Limit: t.limit, Remaining: remaining, ResetAt: w.resetAt}
}

func (t *Throttle) current(identity string, now time.Time) *window {
	if v, ok := t.windows.Get(identity); ok {
		if w := v.(*window); now.Before(w.resetAt) {
			return w
		}
	}
	w := &window{resetAt: now.Add(t.window)}
	t.windows.Set(identity, w, t.window)
	return w
}
