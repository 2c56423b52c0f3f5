package util

import (
	"context"
	"time"
)

// SleepCtx blocks for d or until the context is canceled, whichever is
// first, without leaking the timer.
func SleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
