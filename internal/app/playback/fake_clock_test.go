package playback

import (
	"sync"
	"time"
)

// fakeClock records scheduled callbacks and runs them only when fired by the test.
type fakeClock struct {
	mu      sync.Mutex
	pending []*fakeTimer
	armed   int
}

type fakeTimer struct {
	delay     time.Duration
	fn        func()
	cancelled bool
	fired     bool
}

func (c *fakeClock) ScheduleOnce(d time.Duration, fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &fakeTimer{delay: d, fn: fn}
	c.pending = append(c.pending, t)
	c.armed++
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		t.cancelled = true
	}
}

// live returns the timers that are neither cancelled nor fired.
func (c *fakeClock) live() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []*fakeTimer
	for _, t := range c.pending {
		if !t.cancelled && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// next returns the only live timer, or nil.
func (c *fakeClock) next() *fakeTimer {
	live := c.live()
	if len(live) == 0 {
		return nil
	}
	return live[len(live)-1]
}

// fire runs the live timer and reports whether one was pending.
func (c *fakeClock) fire() bool {
	t := c.next()
	if t == nil {
		return false
	}
	c.mu.Lock()
	t.fired = true
	c.mu.Unlock()
	t.fn()
	return true
}

// fireStale runs a timer even though it was cancelled, as a racing wall clock could.
func (c *fakeClock) fireStale(t *fakeTimer) {
	t.fn()
}
