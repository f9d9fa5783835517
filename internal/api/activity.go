package api

import "sync"

// Activity tracks the number of requests currently in flight and fans the
// derived busy flag out to subscribers. One instance lives on each Client;
// there is no package-level state.
type Activity struct {
	mu       sync.Mutex
	inflight int
	nextID   int
	subs     map[int]func(busy bool)
}

// NewActivity returns an empty counter.
func NewActivity() *Activity {
	return &Activity{subs: make(map[int]func(bool))}
}

// Add records one dispatched request and notifies subscribers.
func (a *Activity) Add() {
	a.mu.Lock()
	a.inflight++
	fns, busy := a.snapshot()
	a.mu.Unlock()
	notify(fns, busy)
}

// Done records one settled request. The counter is clamped at zero so a
// stray double-settle can never drive it negative.
func (a *Activity) Done() {
	a.mu.Lock()
	if a.inflight > 0 {
		a.inflight--
	}
	fns, busy := a.snapshot()
	a.mu.Unlock()
	notify(fns, busy)
}

// InFlight returns the current request count.
func (a *Activity) InFlight() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inflight
}

// Busy reports whether any request is in flight.
func (a *Activity) Busy() bool {
	return a.InFlight() > 0
}

// Subscribe registers fn to be called after every counter change with the
// derived busy flag. The returned function removes the subscription and is
// safe to call more than once.
func (a *Activity) Subscribe(fn func(busy bool)) (unsubscribe func()) {
	a.mu.Lock()
	if a.subs == nil {
		a.subs = make(map[int]func(bool))
	}
	id := a.nextID
	a.nextID++
	a.subs[id] = fn
	a.mu.Unlock()

	return func() {
		a.mu.Lock()
		delete(a.subs, id)
		a.mu.Unlock()
	}
}

// snapshot copies the subscriber list so notification runs outside the lock.
func (a *Activity) snapshot() ([]func(bool), bool) {
	fns := make([]func(bool), 0, len(a.subs))
	for _, fn := range a.subs {
		fns = append(fns, fn)
	}
	return fns, a.inflight > 0
}

func notify(fns []func(bool), busy bool) {
	for _, fn := range fns {
		fn(busy)
	}
}
