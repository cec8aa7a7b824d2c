// Package reminder implements the recurring notification core: one
// independently running timer per configured reminder, each waking at a fixed
// local time of day, delivering through a Notifier, and retrying failed
// deliveries until cancelled. A Supervisor owns the timers' lifecycle.
package reminder

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock abstracts wall-clock access so deadline computation and waiting can be
// driven deterministically in tests.
type Clock interface {
	// Now returns the current local time.
	Now() time.Time

	// SleepUntil blocks until deadline is reached or ctx is cancelled,
	// whichever happens first. It returns nil when the deadline was reached
	// and ctx.Err() on cancellation. A deadline at or before Now returns
	// immediately with nil, unless ctx is already cancelled; cancellation
	// always wins.
	SleepUntil(ctx context.Context, deadline time.Time) error
}

type clockworkClock struct {
	cw clockwork.Clock
}

// NewClock wraps a clockwork clock. Tests pass a fake clock; production code
// uses NewSystemClock.
func NewClock(cw clockwork.Clock) Clock {
	return clockworkClock{cw: cw}
}

// NewSystemClock returns a Clock backed by the system wall clock.
func NewSystemClock() Clock {
	return clockworkClock{cw: clockwork.NewRealClock()}
}

func (c clockworkClock) Now() time.Time {
	return c.cw.Now()
}

func (c clockworkClock) SleepUntil(ctx context.Context, deadline time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d := deadline.Sub(c.cw.Now())
	if d <= 0 {
		return nil
	}

	timer := c.cw.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}
