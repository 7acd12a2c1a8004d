package backend

import (
	"context"
	"sync"
	"time"
)

// Tick is published by the Watcher each interval.
type Tick struct {
	At time.Time
}

// Watcher publishes a Tick at a fixed interval until stopped. The consumer
// decides what to refresh; the watcher holds no data of its own.
type Watcher struct {
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	ticks chan Tick
	wg    sync.WaitGroup
}

// NewWatcher starts a watcher. A non-positive interval yields a watcher whose
// channel closes immediately.
func NewWatcher(interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		ticks:    make(chan Tick, 1),
	}
	if interval > 0 {
		w.wg.Add(1)
		go w.poll()
	}
	go func() {
		w.wg.Wait()
		close(w.ticks)
	}()
	return w
}

// Events returns the tick channel.
func (w *Watcher) Events() <-chan Tick {
	return w.ticks
}

// Stop cancels the watcher. Use Wait if a clean drain is required.
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the poller has exited and the channel is closed.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) poll() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case now := <-ticker.C:
			select {
			case <-w.ctx.Done():
				return
			case w.ticks <- Tick{At: now}:
			default:
				// consumer is behind; one pending tick is enough
			}
		}
	}
}
