package reminder_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/edgard/nagbot/internal/reminder"
)

func TestClockSleepUntil(t *testing.T) {
	t.Parallel()

	start := time.Date(2025, time.March, 10, 18, 0, 0, 0, time.Local)

	t.Run("returns immediately for past deadline", func(t *testing.T) {
		t.Parallel()

		fc := clockwork.NewFakeClockAt(start)
		clk := reminder.NewClock(fc)

		if err := clk.SleepUntil(context.Background(), start.Add(-time.Hour)); err != nil {
			t.Errorf("SleepUntil(past) = %v, want nil", err)
		}
		if err := clk.SleepUntil(context.Background(), start); err != nil {
			t.Errorf("SleepUntil(now) = %v, want nil", err)
		}
	})

	t.Run("wakes when deadline is reached", func(t *testing.T) {
		t.Parallel()

		fc := clockwork.NewFakeClockAt(start)
		clk := reminder.NewClock(fc)

		result := make(chan error, 1)
		go func() {
			result <- clk.SleepUntil(context.Background(), start.Add(time.Hour))
		}()

		fc.BlockUntil(1)
		fc.Advance(time.Hour)

		if err := <-result; err != nil {
			t.Errorf("SleepUntil() = %v, want nil", err)
		}
	})

	t.Run("cancellation wins over past deadline", func(t *testing.T) {
		t.Parallel()

		fc := clockwork.NewFakeClockAt(start)
		clk := reminder.NewClock(fc)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if err := clk.SleepUntil(ctx, start.Add(-time.Hour)); !errors.Is(err, context.Canceled) {
			t.Errorf("SleepUntil(past, cancelled ctx) = %v, want context.Canceled", err)
		}
		if err := clk.SleepUntil(ctx, start); !errors.Is(err, context.Canceled) {
			t.Errorf("SleepUntil(now, cancelled ctx) = %v, want context.Canceled", err)
		}
	})

	t.Run("returns context error on cancellation", func(t *testing.T) {
		t.Parallel()

		fc := clockwork.NewFakeClockAt(start)
		clk := reminder.NewClock(fc)

		ctx, cancel := context.WithCancel(context.Background())
		result := make(chan error, 1)
		go func() {
			result <- clk.SleepUntil(ctx, start.Add(time.Hour))
		}()

		fc.BlockUntil(1)
		cancel()

		if err := <-result; !errors.Is(err, context.Canceled) {
			t.Errorf("SleepUntil() after cancel = %v, want context.Canceled", err)
		}
	})
}
