package reminder

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// RetryInterval is the fixed pause between failed delivery attempts. There is
// no attempt ceiling: a notification provider that is down for hours must not
// kill the timer.
const RetryInterval = 60 * time.Second

// State identifies where a timer currently is in its loop.
type State int32

const (
	StateWaiting State = iota
	StateDelivering
	StateRetryBackoff
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateWaiting:
		return "waiting"
	case StateDelivering:
		return "delivering"
	case StateRetryBackoff:
		return "retry_backoff"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Timer runs the delivery loop for a single Spec: wait until the next daily
// deadline, deliver, retry failed deliveries every RetryInterval, and exit
// only when cancelled. Timers share no state with each other; the only shared
// resource is the Notifier.
type Timer struct {
	spec     Spec
	notifier Notifier
	clock    Clock
	log      *slog.Logger
	state    atomic.Int32
}

func newTimer(spec Spec, notifier Notifier, clock Clock, log *slog.Logger) *Timer {
	return &Timer{
		spec:     spec,
		notifier: notifier,
		clock:    clock,
		log:      log.With("component", "reminder_timer", "fire_at", spec.String()),
	}
}

// Spec returns the reminder spec this timer owns.
func (t *Timer) Spec() Spec {
	return t.spec
}

// State reports the timer's current loop state.
func (t *Timer) State() State {
	return State(t.state.Load())
}

func (t *Timer) setState(s State) {
	t.state.Store(int32(s))
}

// Run executes the timer loop until ctx is cancelled. Each iteration
// recomputes the next deadline from the clock, so a system clock jump
// self-corrects on the following wake-up. Delivery failures never end the
// loop; cancellation is observed at the two sleep points.
func (t *Timer) Run(ctx context.Context) {
	defer t.setState(StateCancelled)

	for {
		t.setState(StateWaiting)
		deadline := t.spec.NextDeadline(t.clock.Now())
		t.log.DebugContext(ctx, "Waiting for next deadline", "deadline", deadline)

		if err := t.clock.SleepUntil(ctx, deadline); err != nil {
			t.log.InfoContext(ctx, "Timer cancelled while waiting for deadline")
			return
		}

		if err := t.deliver(ctx); err != nil {
			t.log.InfoContext(ctx, "Timer cancelled during retry backoff")
			return
		}
	}
}

// deliver attempts delivery until it succeeds, sleeping RetryInterval between
// failed attempts. It returns a non-nil error only on cancellation. The send
// context is detached from cancellation so an in-flight Send always runs to
// completion; cancellation takes effect at the following backoff sleep.
func (t *Timer) deliver(ctx context.Context) error {
	for attempt := 1; ; attempt++ {
		t.setState(StateDelivering)

		err := t.notifier.Send(context.WithoutCancel(ctx), t.spec.Message)
		if err == nil {
			t.log.InfoContext(ctx, "Reminder delivered", "attempts", attempt)
			return nil
		}
		t.log.ErrorContext(ctx, "Reminder delivery failed, will retry",
			"error", err, "attempt", attempt, "retry_in", RetryInterval)

		t.setState(StateRetryBackoff)
		if err := t.clock.SleepUntil(ctx, t.clock.Now().Add(RetryInterval)); err != nil {
			return err
		}
	}
}
