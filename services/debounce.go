package services

import (
	"sync"
	"time"
)

// Debouncer coalesces calls per key: only the last function scheduled for a
// key within the delay runs.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[int64]*pendingCall
}

type pendingCall struct {
	timer *time.Timer
	fn    func()
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: make(map[int64]*pendingCall),
	}
}

// Schedule replaces any pending call for key with fn. A non-positive delay
// runs fn synchronously.
func (d *Debouncer) Schedule(key int64, fn func()) {
	if d.delay <= 0 {
		fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.pending[key]; ok {
		prev.timer.Stop()
	}

	call := &pendingCall{fn: fn}
	call.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.pending[key] != call {
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		d.mu.Unlock()
		call.fn()
	})
	d.pending[key] = call
}

// Pending reports how many keys have a call waiting
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Flush runs every pending call now
func (d *Debouncer) Flush() {
	d.mu.Lock()
	calls := make([]*pendingCall, 0, len(d.pending))
	for key, call := range d.pending {
		// A timer that already fired finds its key gone and returns.
		call.timer.Stop()
		calls = append(calls, call)
		delete(d.pending, key)
	}
	d.mu.Unlock()

	for _, call := range calls {
		call.fn()
	}
}
