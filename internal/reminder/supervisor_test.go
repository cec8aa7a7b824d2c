package reminder_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/nagbot/internal/reminder"
)

func TestSupervisorRejectsInvalidSpec(t *testing.T) {
	t.Parallel()

	specs := []reminder.Spec{
		{Hour: 9, Minute: 0, Message: "ok"},
		{Hour: 25, Minute: 0, Message: "bad"},
	}

	fc := clockwork.NewFakeClockAt(testStart)
	_, err := reminder.NewSupervisor(specs, newScriptedNotifier(fc.Now), reminder.NewClock(fc), testLogger())
	if err == nil {
		t.Fatal("NewSupervisor() with invalid spec returned nil error")
	}
}

func TestSupervisorStartTwice(t *testing.T) {
	t.Parallel()

	fc := clockwork.NewFakeClockAt(testStart)
	sup, err := reminder.NewSupervisor(
		[]reminder.Spec{{Hour: 19, Minute: 0, Message: "Study"}},
		newScriptedNotifier(fc.Now), reminder.NewClock(fc), testLogger())
	if err != nil {
		t.Fatalf("NewSupervisor() error = %v", err)
	}

	if err := sup.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = sup.Shutdown(5 * time.Second) })

	if err := sup.Start(context.Background()); err == nil {
		t.Fatal("second Start() returned nil error")
	}
}

func TestSupervisorShutdownWithoutStart(t *testing.T) {
	t.Parallel()

	fc := clockwork.NewFakeClockAt(testStart)
	sup, err := reminder.NewSupervisor(
		[]reminder.Spec{{Hour: 19, Minute: 0, Message: "Study"}},
		newScriptedNotifier(fc.Now), reminder.NewClock(fc), testLogger())
	if err != nil {
		t.Fatalf("NewSupervisor() error = %v", err)
	}

	if err := sup.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown() without Start = %v, want nil", err)
	}
}

// Four timers all in Waiting: shutdown cancels every one of them within the
// bound and no delivery is attempted after the call.
func TestSupervisorShutdownAllWaiting(t *testing.T) {
	t.Parallel()

	specs := []reminder.Spec{
		{Hour: 7, Minute: 30, Message: "Wake up"},
		{Hour: 12, Minute: 0, Message: "Lunch"},
		{Hour: 19, Minute: 0, Message: "Study"},
		{Hour: 23, Minute: 45, Message: "Sleep"},
	}

	fc := clockwork.NewFakeClockAt(testStart)
	notifier := newScriptedNotifier(fc.Now)
	sup, err := reminder.NewSupervisor(specs, notifier, reminder.NewClock(fc), testLogger())
	if err != nil {
		t.Fatalf("NewSupervisor() error = %v", err)
	}
	if err := sup.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	fc.BlockUntil(len(specs))

	if err := sup.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}

	for i, timer := range sup.Timers() {
		if state := timer.State(); state != reminder.StateCancelled {
			t.Errorf("timer %d (%v) state = %v, want %v", i, timer.Spec(), state, reminder.StateCancelled)
		}
	}
	assertNoAttempt(t, notifier.attempts)
}

// blockingNotifier blocks every Send until released, ignoring the context:
// an in-flight delivery is never aborted by cancellation.
type blockingNotifier struct {
	entered chan struct{}
	release chan struct{}
}

func (n *blockingNotifier) Send(context.Context, string) error {
	n.entered <- struct{}{}
	<-n.release
	return errors.New("delivery interrupted")
}

func TestSupervisorShutdownTimeout(t *testing.T) {
	t.Parallel()

	notifier := &blockingNotifier{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
	}

	fc := clockwork.NewFakeClockAt(testStart)
	sup, err := reminder.NewSupervisor(
		[]reminder.Spec{{Hour: 19, Minute: 0, Message: "Study"}},
		notifier, reminder.NewClock(fc), testLogger())
	if err != nil {
		t.Fatalf("NewSupervisor() error = %v", err)
	}
	if err := sup.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	fc.BlockUntil(1)
	fc.Advance(time.Hour)
	<-notifier.entered // delivery is now in flight and stuck

	if err := sup.Shutdown(50 * time.Millisecond); !errors.Is(err, reminder.ErrShutdownTimeout) {
		t.Fatalf("Shutdown() = %v, want ErrShutdownTimeout", err)
	}

	// Once the stuck delivery returns, the timer observes the cancellation at
	// its backoff sleep and exits cleanly.
	close(notifier.release)
	if err := sup.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("Shutdown() after release = %v", err)
	}
	if state := sup.Timers()[0].State(); state != reminder.StateCancelled {
		t.Errorf("timer state = %v, want %v", state, reminder.StateCancelled)
	}
}

// ctxAwareNotifier completes a delivery only when released, but gives up as
// soon as its context is cancelled, reporting which of the two happened.
type ctxAwareNotifier struct {
	entered chan struct{}
	release chan struct{}
	results chan error
}

func (n *ctxAwareNotifier) Send(ctx context.Context, _ string) error {
	n.entered <- struct{}{}
	select {
	case <-ctx.Done():
		n.results <- ctx.Err()
		return ctx.Err()
	case <-n.release:
		n.results <- nil
		return nil
	}
}

// Cancellation signaled during an in-flight delivery must not abort it: the
// Send call runs to completion and the timer exits at its next sleep point.
func TestShutdownDoesNotAbortInFlightDelivery(t *testing.T) {
	t.Parallel()

	notifier := &ctxAwareNotifier{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
		results: make(chan error, 1),
	}

	fc := clockwork.NewFakeClockAt(testStart)
	sup, err := reminder.NewSupervisor(
		[]reminder.Spec{{Hour: 19, Minute: 0, Message: "Study"}},
		notifier, reminder.NewClock(fc), testLogger())
	if err != nil {
		t.Fatalf("NewSupervisor() error = %v", err)
	}
	if err := sup.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	fc.BlockUntil(1)
	fc.Advance(time.Hour)
	<-notifier.entered // delivery is now in flight

	shutdownDone := make(chan error, 1)
	go func() { shutdownDone <- sup.Shutdown(5 * time.Second) }()

	// Let the cancellation reach the notifier before the delivery is allowed
	// to finish; a notifier watching its context would return early here.
	time.Sleep(50 * time.Millisecond)
	close(notifier.release)

	if err := <-notifier.results; err != nil {
		t.Fatalf("in-flight delivery was aborted by cancellation: %v", err)
	}
	if err := <-shutdownDone; err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if state := sup.Timers()[0].State(); state != reminder.StateCancelled {
		t.Errorf("timer state = %v, want %v", state, reminder.StateCancelled)
	}
}

// A timer stuck in retry backoff must not delay or alter the schedule of a
// sibling timer.
func TestSupervisorTimerIndependence(t *testing.T) {
	t.Parallel()

	specA := reminder.Spec{Hour: 19, Minute: 0, Message: "A"}
	specB := reminder.Spec{Hour: 20, Minute: 0, Message: "B"}

	fc := clockwork.NewFakeClockAt(testStart)

	// Deliveries of "A" always fail; everything else succeeds.
	notifier := &recordingNotifier{
		now:      fc.Now,
		attempts: make(chan sendResult, 64),
		fail: func(message string) error {
			if message == "A" {
				return errors.New("provider down")
			}
			return nil
		},
	}

	sup, err := reminder.NewSupervisor(
		[]reminder.Spec{specA, specB},
		notifier, reminder.NewClock(fc), testLogger())
	if err != nil {
		t.Fatalf("NewSupervisor() error = %v", err)
	}
	if err := sup.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = sup.Shutdown(5 * time.Second) })

	// Both timers waiting. Advance to 19:00: A fires and fails, entering
	// backoff; B is untouched.
	fc.BlockUntil(2)
	fc.Advance(time.Hour)

	first := waitAttempt(t, notifier.attempts)
	if first.message != "A" || first.err == nil {
		t.Fatalf("first attempt = %+v, want failing delivery of A", first)
	}

	// A sleeps out its backoff, B still waits for 20:00. Advance one more
	// hour: A retries (and fails) once at 19:01, B delivers at 20:00 exactly
	// on schedule.
	fc.BlockUntil(2)
	fc.Advance(time.Hour)

	var gotB *sendResult
	aFailures := 1
	for i := 0; i < 2; i++ {
		res := waitAttempt(t, notifier.attempts)
		switch res.message {
		case "A":
			if res.err == nil {
				t.Fatalf("delivery of A unexpectedly succeeded: %+v", res)
			}
			aFailures++
		case "B":
			if res.err != nil {
				t.Fatalf("delivery of B failed: %+v", res)
			}
			gotB = &res
		default:
			t.Fatalf("unexpected message %q", res.message)
		}
	}

	if gotB == nil {
		t.Fatal("B was never delivered")
	}
	wantB := time.Date(2025, time.March, 10, 20, 0, 0, 0, time.Local)
	if !gotB.at.Equal(wantB) {
		t.Errorf("B delivered at %v, want %v (unaffected by A's backoff)", gotB.at, wantB)
	}
	if aFailures < 2 {
		t.Errorf("A failures = %d, want at least 2", aFailures)
	}
}

// recordingNotifier decides success or failure per message and reports every
// attempt on the attempts channel.
type recordingNotifier struct {
	now      func() time.Time
	fail     func(message string) error
	attempts chan sendResult
}

func (n *recordingNotifier) Send(_ context.Context, message string) error {
	err := n.fail(message)
	n.attempts <- sendResult{message: message, at: n.now(), err: err}
	return err
}
