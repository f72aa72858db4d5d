// Package service implements the session, event and notification use cases on top of the stores.
package service

import (
	"context"
	"time"
)

// suspend waits d before an operation takes effect. It returns early with the
// context error when ctx is done first.
func suspend(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
