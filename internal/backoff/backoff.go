// Package backoff provides the exponential delay schedule for store retries.
package backoff

import (
	"context"
	"time"
)

const maxDelay = 5 * time.Second

// Delay returns the backoff delay for a zero-based attempt number,
// doubling from base and capped at 5s.
func Delay(attempt int, base time.Duration) time.Duration {
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= maxDelay {
			return maxDelay
		}
	}
	return d
}

// Sleep waits for the attempt's delay or until ctx is done.
func Sleep(ctx context.Context, attempt int, base time.Duration) error {
	timer := time.NewTimer(Delay(attempt, base))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
