// Package debounce coalesces bursts of refresh requests per key.
package debounce

import (
	"sync"
	"time"
)

// Debouncer arms at most one timer per key. Calls to Schedule while a
// timer is armed are dropped; when the timer fires the key is disarmed and
// fn runs. Runs of fn for the same key never overlap, so each run observes
// state at least as new as the run before it.
type Debouncer[K comparable] struct {
	delay time.Duration
	fn    func(K)

	mu      sync.Mutex
	pending map[K]*time.Timer
	running map[K]*sync.Mutex
	stopped bool
}

func New[K comparable](delay time.Duration, fn func(K)) *Debouncer[K] {
	return &Debouncer[K]{
		delay:   delay,
		fn:      fn,
		pending: make(map[K]*time.Timer),
		running: make(map[K]*sync.Mutex),
	}
}

// Schedule arms the timer for key and reports whether it did. It returns
// false when a timer is already armed or the debouncer is stopped.
func (d *Debouncer[K]) Schedule(key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return false
	}
	if _, ok := d.pending[key]; ok {
		return false
	}
	d.pending[key] = time.AfterFunc(d.delay, func() { d.fire(key) })
	return true
}

// Now runs fn for key on the calling goroutine without waiting for the
// delay. An armed timer for key stays armed.
func (d *Debouncer[K]) Now(key K) {
	lock := d.lockFor(key)
	lock.Lock()
	defer lock.Unlock()
	d.fn(key)
}

// Pending reports whether a timer is armed for key.
func (d *Debouncer[K]) Pending(key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

// Forget disarms key and drops its bookkeeping. Use it for keys that
// will not be scheduled again.
func (d *Debouncer[K]) Forget(key K) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t, ok := d.pending[key]; ok {
		t.Stop()
		delete(d.pending, key)
	}
	delete(d.running, key)
}

// Stop disarms every timer. Runs already in progress complete.
func (d *Debouncer[K]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for key, t := range d.pending {
		t.Stop()
		delete(d.pending, key)
	}
}

func (d *Debouncer[K]) fire(key K) {
	lock := d.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	// Disarm only once the previous run is over: requests that arrive
	// while it finishes fold into this run.
	d.mu.Lock()
	if _, ok := d.pending[key]; !ok {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	d.fn(key)
}

func (d *Debouncer[K]) lockFor(key K) *sync.Mutex {
	d.mu.Lock()
	defer d.mu.Unlock()
	lock, ok := d.running[key]
	if !ok {
		lock = &sync.Mutex{}
		d.running[key] = lock
	}
	return lock
}
