// Package notify implements the transient single-slot message display:
// one message at a time, shown for a fixed period, faded out, cleared.
// A new message preempts the current one cleanly, cancelling both of its
// pending timers so no stray clear fires later.
package notify

import (
	"sync"
	"time"
)

const (
	defaultVisibleFor = 2 * time.Second
	defaultFadeFor    = 500 * time.Millisecond
)

// State is the externally visible slot state at one point in time.
type State struct {
	Message   string
	Visible   bool
	FadingOut bool
}

// Channel is the single-slot timed display. The zero value is not usable;
// construct with NewChannel.
type Channel struct {
	mu         sync.Mutex
	visibleFor time.Duration
	fadeFor    time.Duration
	state      State
	seq        uint64
	fadeTimer  *time.Timer
	clearTimer *time.Timer
	sink       func(State)
}

// NewChannel builds a Channel with the standard 2s/500ms timing.
func NewChannel() *Channel {
	return NewChannelWithTiming(defaultVisibleFor, defaultFadeFor)
}

// NewChannelWithTiming builds a Channel with explicit durations. Tests use
// short ones.
func NewChannelWithTiming(visibleFor, fadeFor time.Duration) *Channel {
	return &Channel{visibleFor: visibleFor, fadeFor: fadeFor}
}

// SetSink registers the callback receiving every state transition. The
// callback runs outside the channel's lock and may arrive from a timer
// goroutine.
func (c *Channel) SetSink(fn func(State)) {
	c.mu.Lock()
	c.sink = fn
	c.mu.Unlock()
}

// State returns the current slot state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Show replaces any pending message immediately and restarts the display
// cycle: visible now, fading after visibleFor, cleared fadeFor later.
func (c *Channel) Show(message string) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	if c.fadeTimer != nil {
		c.fadeTimer.Stop()
		c.fadeTimer = nil
	}
	if c.clearTimer != nil {
		c.clearTimer.Stop()
		c.clearTimer = nil
	}
	c.state = State{Message: message, Visible: true}
	c.fadeTimer = time.AfterFunc(c.visibleFor, func() { c.fade(seq) })
	state, sink := c.state, c.sink
	c.mu.Unlock()

	emit(sink, state)
}

func (c *Channel) fade(seq uint64) {
	c.mu.Lock()
	if seq != c.seq {
		// A newer Show preempted this cycle between fire and lock.
		c.mu.Unlock()
		return
	}
	c.state.FadingOut = true
	c.clearTimer = time.AfterFunc(c.fadeFor, func() { c.clear(seq) })
	state, sink := c.state, c.sink
	c.mu.Unlock()

	emit(sink, state)
}

func (c *Channel) clear(seq uint64) {
	c.mu.Lock()
	if seq != c.seq {
		c.mu.Unlock()
		return
	}
	c.state = State{}
	state, sink := c.state, c.sink
	c.mu.Unlock()

	emit(sink, state)
}

func emit(sink func(State), state State) {
	if sink != nil {
		sink(state)
	}
}
