package service

import (
	"context"
	"time"
)

// throttle enforces a minimum interval between consecutive generation
// calls. It measures from the start of the previous call, so a slow call
// already counts toward the interval and adds no extra waiting, while fast
// calls never exceed the allowed rate.
type throttle struct {
	interval time.Duration
	last     time.Time
}

func newThrottle(interval time.Duration) *throttle {
	return &throttle{interval: interval}
}

// Wait blocks until the interval since the previous call has elapsed, then
// records the new call start. Returns early if ctx is done.
func (t *throttle) Wait(ctx context.Context) error {
	if t.interval > 0 && !t.last.IsZero() {
		if remaining := t.interval - time.Since(t.last); remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	t.last = time.Now()
	return ctx.Err()
}
