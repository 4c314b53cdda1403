// Package scheduler triggers a function on a fixed interval.
package scheduler

import (
	"context"
	"time"
)

// Run calls fn every interval until ctx is done, and returns ctx.Err().
// fn runs synchronously, so invocations never overlap; ticks that elapse while fn
// is running are dropped. With runOnStart, fn is also called once before the first tick.
func Run(ctx context.Context, interval time.Duration, runOnStart bool, fn func(context.Context)) error {
	if runOnStart {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(ctx)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(ctx)
		}
	}
}
