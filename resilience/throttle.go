package resilience

import (
	"context"
	"sync"
	"time"
)

// Throttle enforces a minimum interval between operations sharing a key,
// e.g. requests to the same host.
type Throttle struct {
	interval time.Duration
	now      func() time.Time

	mu   sync.Mutex
	next map[string]time.Time
}

// NewThrottle creates a throttle. A zero interval never waits.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval, now: time.Now, next: make(map[string]time.Time)}
}

// Wait blocks until an operation for key may start, or ctx is done.
func (t *Throttle) Wait(ctx context.Context, key string) error {
	if t.interval <= 0 {
		return ctx.Err()
	}

	t.mu.Lock()
	now := t.now()
	start := t.next[key]
	if start.Before(now) {
		start = now
	}
	t.next[key] = start.Add(t.interval)
	t.mu.Unlock()

	wait := start.Sub(now)
	if wait <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
