package api

import (
	"sync"
	"testing"
)

func TestActivity_BalancedAndClamped(t *testing.T) {
	t.Parallel()

	a := NewActivity()
	a.Add()
	a.Add()
	if got := a.InFlight(); got != 2 {
		t.Fatalf("in-flight = %d, want 2", got)
	}
	a.Done()
	a.Done()
	if got := a.InFlight(); got != 0 {
		t.Fatalf("in-flight = %d, want 0", got)
	}

	// Extra settles must clamp, never go negative.
	a.Done()
	a.Done()
	if got := a.InFlight(); got != 0 {
		t.Fatalf("in-flight after extra Done = %d, want 0", got)
	}
	if a.Busy() {
		t.Fatalf("Busy() = true with zero in flight")
	}
}

func TestActivity_ConcurrentBalance(t *testing.T) {
	t.Parallel()

	a := NewActivity()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Add()
			defer a.Done()
		}()
	}
	wg.Wait()
	if got := a.InFlight(); got != 0 {
		t.Fatalf("in-flight after batch = %d, want 0", got)
	}
}

func TestActivity_SubscribeAndUnsubscribe(t *testing.T) {
	t.Parallel()

	a := NewActivity()
	var mu sync.Mutex
	var seen []bool
	unsubscribe := a.Subscribe(func(busy bool) {
		mu.Lock()
		seen = append(seen, busy)
		mu.Unlock()
	})

	a.Add()
	a.Done()

	mu.Lock()
	got := append([]bool(nil), seen...)
	mu.Unlock()
	if len(got) != 2 || got[0] != true || got[1] != false {
		t.Fatalf("notifications = %v, want [true false]", got)
	}

	unsubscribe()
	unsubscribe() // must be safe to call twice
	a.Add()
	a.Done()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 {
		t.Fatalf("notifications after unsubscribe = %d, want unchanged 2", len(seen))
	}
}
