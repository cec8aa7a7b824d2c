package reminder

import (
	"fmt"
	"time"
)

// Spec describes one recurring notification: the local time of day to fire and
// the message to deliver. Specs are immutable after construction.
type Spec struct {
	Hour    int
	Minute  int
	Message string
}

// Validate checks that the spec denotes a valid time of day and carries a
// non-empty message.
func (s Spec) Validate() error {
	if s.Hour < 0 || s.Hour > 23 {
		return fmt.Errorf("hour must be between 0 and 23, got %d", s.Hour)
	}
	if s.Minute < 0 || s.Minute > 59 {
		return fmt.Errorf("minute must be between 0 and 59, got %d", s.Minute)
	}
	if s.Message == "" {
		return fmt.Errorf("message must not be empty")
	}
	return nil
}

// at returns the spec's time of day anchored to the date of t, in t's location.
func (s Spec) at(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), s.Hour, s.Minute, 0, 0, t.Location())
}

// NextDeadline returns the next occurrence of the spec's time of day strictly
// after now. An exact match counts as already passed and rolls to the next
// day, so a deadline is never in the past and never fires twice for the same
// instant.
func (s Spec) NextDeadline(now time.Time) time.Time {
	next := s.at(now)
	if !next.After(now) {
		next = s.at(now.AddDate(0, 0, 1))
	}
	return next
}

func (s Spec) String() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}
