package analytics

import (
	"context"
	"sync"
	"time"
)

// Refresher invokes a callback on a fixed interval until stopped.  The
// dashboard uses it to recompute snapshots; a tick that overlaps a slow
// callback simply runs after it, ticks are never queued up.
type Refresher struct {
	interval time.Duration
	fn       func(ctx context.Context)

	once sync.Once
	stop chan struct{}
}

func NewRefresher(interval time.Duration, fn func(ctx context.Context)) *Refresher {
	return &Refresher{interval: interval, fn: fn, stop: make(chan struct{})}
}

// Start blocks until the context is cancelled or Stop is called.  Run it
// in its own goroutine.
func (r *Refresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stop:
			return
		case <-ticker.C:
			r.fn(ctx)
		}
	}
}

// Stop terminates the loop. Safe to call more than once.
func (r *Refresher) Stop() {
	r.once.Do(func() { close(r.stop) })
}
