package notify

import (
	"sync"
	"testing"
	"time"
)

// recorder collects every state transition the channel emits.
type recorder struct {
	mu     sync.Mutex
	states []State
}

func (r *recorder) sink(s State) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, len(r.states))
	copy(out, r.states)
	return out
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not reached within deadline")
}

func TestChannel_FullDisplayCycle(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := NewChannelWithTiming(20*time.Millisecond, 10*time.Millisecond)
	c.SetSink(rec.sink)

	c.Show("Saved")

	if s := c.State(); !s.Visible || s.Message != "Saved" || s.FadingOut {
		t.Fatalf("state after Show = %+v, want visible Saved", s)
	}

	waitFor(t, func() bool { return c.State() == State{} })

	states := rec.snapshot()
	if len(states) != 3 {
		t.Fatalf("transitions = %d (%+v), want show/fade/clear", len(states), states)
	}
	if !states[0].Visible || states[0].FadingOut {
		t.Fatalf("first transition = %+v, want visible", states[0])
	}
	if !states[1].Visible || !states[1].FadingOut || states[1].Message != "Saved" {
		t.Fatalf("second transition = %+v, want fading with message intact", states[1])
	}
	if states[2] != (State{}) {
		t.Fatalf("final transition = %+v, want cleared slot", states[2])
	}
}

func TestChannel_NewMessagePreemptsOldTimers(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	c := NewChannelWithTiming(30*time.Millisecond, 10*time.Millisecond)
	c.SetSink(rec.sink)

	c.Show("first")
	time.Sleep(10 * time.Millisecond)
	c.Show("second")

	waitFor(t, func() bool { return c.State() == State{} })

	for _, s := range rec.snapshot() {
		if s.Message == "first" && s.FadingOut {
			t.Fatalf("preempted message still ran its fade: %+v", s)
		}
	}

	// Exactly one full cycle for the survivor: show first, show second,
	// fade second, clear.
	states := rec.snapshot()
	if len(states) != 4 {
		t.Fatalf("transitions = %d (%+v), want 4", len(states), states)
	}
	if states[1].Message != "second" || !states[1].Visible {
		t.Fatalf("replacement transition = %+v, want visible second", states[1])
	}
	if states[2].Message != "second" || !states[2].FadingOut {
		t.Fatalf("fade transition = %+v, want fading second", states[2])
	}
}

func TestChannel_PreemptDuringFade(t *testing.T) {
	t.Parallel()

	c := NewChannelWithTiming(200*time.Millisecond, 50*time.Millisecond)

	c.Show("old")
	waitFor(t, func() bool { return c.State().FadingOut })

	c.Show("new")
	if s := c.State(); s.Message != "new" || !s.Visible || s.FadingOut {
		t.Fatalf("state after preempt = %+v, want fresh visible new", s)
	}

	// Sleep past the point the old clear timer was scheduled for, but well
	// before the replacement starts fading. A stale clear would wipe it.
	time.Sleep(120 * time.Millisecond)
	if s := c.State(); s.Message != "new" || !s.Visible || s.FadingOut {
		t.Fatalf("state after stale-timer window = %+v, want new still fully visible", s)
	}
}

func TestChannel_NoSinkIsSafe(t *testing.T) {
	t.Parallel()

	c := NewChannelWithTiming(time.Millisecond, time.Millisecond)
	c.Show("quiet")
	waitFor(t, func() bool { return c.State() == State{} })
}
