package reminder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrShutdownTimeout is returned by Shutdown when one or more timers are still
// running after the caller's timeout elapses. Forced termination is the
// caller's responsibility, not the supervisor's.
var ErrShutdownTimeout = errors.New("timers still running after shutdown timeout")

// Supervisor owns one Timer per configured Spec, starts them as independent
// goroutines, and on shutdown cancels all of them and awaits their exit within
// a bound. The timer set is fixed for the life of a run.
type Supervisor struct {
	log    *slog.Logger
	timers []*Timer

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewSupervisor validates the specs and creates a supervisor with one timer
// per spec, in configuration order. Timers do not run until Start is called.
func NewSupervisor(specs []Spec, notifier Notifier, clock Clock, logger *slog.Logger) (*Supervisor, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Supervisor{
		log: logger.With("component", "reminder_supervisor"),
	}
	for _, spec := range specs {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("invalid reminder spec %q: %w", spec, err)
		}
		s.timers = append(s.timers, newTimer(spec, notifier, clock, logger))
	}
	return s, nil
}

// Timers returns the supervised timers in configuration order.
func (s *Supervisor) Timers() []*Timer {
	return s.timers
}

// Start launches every timer as an independent goroutine and returns without
// waiting for any deadline. The timers run until ctx is cancelled or Shutdown
// is called.
func (s *Supervisor) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("reminder supervisor is already running")
	}
	s.running = true

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	var wg sync.WaitGroup
	for _, t := range s.timers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			t.Run(runCtx)
		}()
	}
	go func() {
		wg.Wait()
		close(s.done)
	}()

	s.log.Info("Reminder supervisor started", "timers", len(s.timers))
	return nil
}

// Shutdown signals cancellation to every timer and waits until all of them
// have exited or timeout elapses, whichever comes first. It returns
// ErrShutdownTimeout if timers are still running when the timeout expires.
// Shutdown on a supervisor that was never started is a no-op.
func (s *Supervisor) Shutdown(timeout time.Duration) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()

	waitTimer := time.NewTimer(timeout)
	defer waitTimer.Stop()

	select {
	case <-done:
		s.log.Info("All reminder timers stopped")
		return nil
	case <-waitTimer.C:
		s.log.Error("Shutdown timeout elapsed with timers still running", "timeout", timeout)
		return ErrShutdownTimeout
	}
}
