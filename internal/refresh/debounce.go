// Package refresh coalesces bursts of invalidation signals. A write that
// dirties some derived view triggers a refresh, but rapid successive
// writes should produce one recomputation, not one per write.
package refresh

import (
	"sync"
	"time"
)

type pending struct {
	generation uint64
	timer      *time.Timer
}

// Debouncer runs at most one function per key per quiet period. Each
// trigger supersedes the previous one for the same key; only the function
// from the last trigger before the delay elapses actually runs.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*pending
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		pending: make(map[string]*pending),
	}
}

// Trigger schedules fn to run after the quiet period. A later Trigger for
// the same key replaces fn and restarts the clock. fn runs on a timer
// goroutine.
func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.pending[key]
	if !ok {
		p = &pending{}
		d.pending[key] = p
	}
	p.generation++
	gen := p.generation

	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		cur, ok := d.pending[key]
		// A newer trigger or a cancel makes this firing stale.
		if !ok || cur.generation != gen {
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		d.mu.Unlock()

		fn()
	})
}

// Cancel drops the key's pending run, if any.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[key]; ok {
		if p.timer != nil {
			p.timer.Stop()
		}
		delete(d.pending, key)
	}
}

// Flush runs the key's pending function immediately instead of waiting
// out the quiet period.
func (d *Debouncer) Flush(key string, fn func()) {
	d.Cancel(key)
	fn()
}

// Pending reports whether the key has a run scheduled.
func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}
