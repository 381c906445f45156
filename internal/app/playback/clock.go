package playback

import (
	"context"
	"time"
)

// Clock schedules one-shot callbacks.
type Clock interface {
	// ScheduleOnce calls fn once after d and returns a function that cancels the call.
	// Calling cancel after fn ran is a no-op.
	ScheduleOnce(d time.Duration, fn func()) (cancel func())
}

// WallClock schedules callbacks on real time.
type WallClock struct{}

// ScheduleOnce implements Clock.
func (WallClock) ScheduleOnce(d time.Duration, fn func()) func() {
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		timer := time.NewTimer(d)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			fn()
		}
	}()

	return cancel
}
