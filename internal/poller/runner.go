// internal/poller/runner.go
package poller

import (
	"context"
	"time"
)

// Run polls all devices immediately, then on every tick, emitting each cycle
// on out. No overlap between cycles, no retries. Returns when ctx is done;
// a cancellation mid-cycle discards that cycle's partial results.
func (e *Engine) Run(ctx context.Context, devs []Device, interval time.Duration, out chan<- []DeviceResult) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		results, err := e.PollAll(ctx, devs)
		if err != nil {
			return
		}
		select {
		case out <- results:
		case <-ctx.Done():
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
