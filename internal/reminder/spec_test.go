package reminder_test

import (
	"testing"
	"time"

	"github.com/edgard/nagbot/internal/reminder"
)

func TestSpecValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    reminder.Spec
		wantErr bool
	}{
		{name: "valid", spec: reminder.Spec{Hour: 19, Minute: 0, Message: "Study"}, wantErr: false},
		{name: "midnight", spec: reminder.Spec{Hour: 0, Minute: 0, Message: "Sleep"}, wantErr: false},
		{name: "last minute of day", spec: reminder.Spec{Hour: 23, Minute: 59, Message: "Late"}, wantErr: false},
		{name: "hour too large", spec: reminder.Spec{Hour: 24, Minute: 0, Message: "x"}, wantErr: true},
		{name: "negative hour", spec: reminder.Spec{Hour: -1, Minute: 0, Message: "x"}, wantErr: true},
		{name: "minute too large", spec: reminder.Spec{Hour: 12, Minute: 60, Message: "x"}, wantErr: true},
		{name: "negative minute", spec: reminder.Spec{Hour: 12, Minute: -5, Message: "x"}, wantErr: true},
		{name: "empty message", spec: reminder.Spec{Hour: 12, Minute: 30}, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.spec.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestSpecNextDeadline(t *testing.T) {
	t.Parallel()

	day := func(d, h, m, s int) time.Time {
		return time.Date(2025, time.March, d, h, m, s, 0, time.Local)
	}

	tests := []struct {
		name string
		spec reminder.Spec
		now  time.Time
		want time.Time
	}{
		{
			// Time of day still ahead: fire later today.
			name: "before target same day",
			spec: reminder.Spec{Hour: 19, Minute: 0, Message: "Study"},
			now:  day(10, 18, 0, 0),
			want: day(10, 19, 0, 0),
		},
		{
			// Exact match counts as already passed: roll to tomorrow.
			name: "exact match rolls to tomorrow",
			spec: reminder.Spec{Hour: 19, Minute: 0, Message: "Study"},
			now:  day(10, 19, 0, 0),
			want: day(11, 19, 0, 0),
		},
		{
			name: "seconds past target roll to tomorrow",
			spec: reminder.Spec{Hour: 19, Minute: 0, Message: "Study"},
			now:  day(10, 19, 0, 30),
			want: day(11, 19, 0, 0),
		},
		{
			name: "after target same day",
			spec: reminder.Spec{Hour: 19, Minute: 0, Message: "Study"},
			now:  day(10, 22, 15, 0),
			want: day(11, 19, 0, 0),
		},
		{
			name: "one second before target",
			spec: reminder.Spec{Hour: 19, Minute: 0, Message: "Study"},
			now:  day(10, 18, 59, 59),
			want: day(10, 19, 0, 0),
		},
		{
			name: "midnight spec just after midnight",
			spec: reminder.Spec{Hour: 0, Minute: 0, Message: "New day"},
			now:  day(10, 0, 0, 1),
			want: day(11, 0, 0, 0),
		},
		{
			name: "rolls across month boundary",
			spec: reminder.Spec{Hour: 8, Minute: 30, Message: "Morning"},
			now:  time.Date(2025, time.March, 31, 9, 0, 0, 0, time.Local),
			want: time.Date(2025, time.April, 1, 8, 30, 0, 0, time.Local),
		},
		{
			name: "rolls across year boundary",
			spec: reminder.Spec{Hour: 8, Minute: 30, Message: "Morning"},
			now:  time.Date(2025, time.December, 31, 23, 59, 0, 0, time.Local),
			want: time.Date(2026, time.January, 1, 8, 30, 0, 0, time.Local),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := tc.spec.NextDeadline(tc.now)
			if !got.Equal(tc.want) {
				t.Errorf("NextDeadline(%v) = %v, want %v", tc.now, got, tc.want)
			}
			if !got.After(tc.now) {
				t.Errorf("NextDeadline(%v) = %v is not strictly after now", tc.now, got)
			}
		})
	}
}
