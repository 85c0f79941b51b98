package whatsapp

import (
	"sync"
	"time"
)

// reconnectScheduler coalesces disconnect events into a single pending
// reinitialization. A disconnect arriving before the timer fires cancels the
// previous timer and starts a fresh delay, so only one reinit runs per burst.
type reconnectScheduler struct {
	mu    sync.Mutex
	delay time.Duration
	fn    func()
	timer *time.Timer
}

func newReconnectScheduler(delay time.Duration, fn func()) *reconnectScheduler {
	return &reconnectScheduler{delay: delay, fn: fn}
}

func (r *reconnectScheduler) Schedule() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, r.fn)
}

func (r *reconnectScheduler) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
