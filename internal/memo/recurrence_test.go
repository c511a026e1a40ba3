package memo

import (
	"testing"
	"time"
)

func mustTime(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestLatestOccurrence(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		repeat RepeatType
		until  *time.Time
		now    string
		want   string
		fired  bool
	}{
		{
			name: "one-shot in past", base: "2025-01-01T09:00", repeat: RepeatNone,
			now: "2025-01-02T00:00", want: "2025-01-01T09:00", fired: true,
		},
		{
			name: "one-shot in future", base: "2025-06-01T09:00", repeat: RepeatNone,
			now: "2025-01-02T00:00", fired: false,
		},
		{
			name: "one-shot exactly now", base: "2025-01-01T09:00", repeat: RepeatNone,
			now: "2025-01-01T09:00", want: "2025-01-01T09:00", fired: true,
		},
		{
			name: "weekly fires again after seven days", base: "2025-01-01T09:00", repeat: RepeatWeekly,
			now: "2025-01-08T09:00", want: "2025-01-08T09:00", fired: true,
		},
		{
			name: "weekly mid-interval stays on last fire", base: "2025-01-01T09:00", repeat: RepeatWeekly,
			now: "2025-01-10T00:00", want: "2025-01-08T09:00", fired: true,
		},
		{
			name: "daily many steps", base: "2025-01-01T09:00", repeat: RepeatDaily,
			now: "2025-02-01T10:00", want: "2025-02-01T09:00", fired: true,
		},
		{
			name: "monthly calendar stepping", base: "2025-01-15T08:00", repeat: RepeatMonthly,
			now: "2025-04-20T00:00", want: "2025-04-15T08:00", fired: true,
		},
		{
			name: "yearly", base: "2023-03-10T12:00", repeat: RepeatYearly,
			now: "2025-03-10T12:00", want: "2025-03-10T12:00", fired: true,
		},
		{
			name: "until caps expansion", base: "2025-01-01T09:00", repeat: RepeatDaily,
			until: datePtr("2025-01-03"), now: "2025-01-10T00:00",
			want: "2025-01-03T09:00", fired: true,
		},
		{
			name: "until day itself still fires", base: "2025-01-01T09:00", repeat: RepeatDaily,
			until: datePtr("2025-01-02"), now: "2025-01-05T00:00",
			want: "2025-01-02T09:00", fired: true,
		},
		{
			name: "recurring not yet started", base: "2025-05-01T09:00", repeat: RepeatWeekly,
			now: "2025-01-01T00:00", fired: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fired := latestOccurrence(mustTime(tt.base), tt.repeat, tt.until, mustTime(tt.now))
			if fired != tt.fired {
				t.Fatalf("fired = %v, want %v", fired, tt.fired)
			}
			if fired && !got.Equal(mustTime(tt.want)) {
				t.Errorf("latestOccurrence() = %v, want %v", got, mustTime(tt.want))
			}
		})
	}
}

func TestNextOccurrence(t *testing.T) {
	base := mustTime("2025-01-31T09:00")

	if got := nextOccurrence(base, RepeatDaily); !got.Equal(mustTime("2025-02-01T09:00")) {
		t.Errorf("daily = %v", got)
	}
	if got := nextOccurrence(base, RepeatWeekly); !got.Equal(mustTime("2025-02-07T09:00")) {
		t.Errorf("weekly = %v", got)
	}
	// Jan 31 + 1 month normalizes to Mar 3 (2025 is not a leap year).
	if got := nextOccurrence(base, RepeatMonthly); !got.Equal(mustTime("2025-03-03T09:00")) {
		t.Errorf("monthly = %v", got)
	}
	if got := nextOccurrence(base, RepeatYearly); !got.Equal(mustTime("2026-01-31T09:00")) {
		t.Errorf("yearly = %v", got)
	}
	if got := nextOccurrence(base, RepeatNone); !got.Equal(base) {
		t.Errorf("none should not advance, got %v", got)
	}
}

func TestRepeatTypeValid(t *testing.T) {
	for _, r := range []RepeatType{RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly} {
		if !r.Valid() {
			t.Errorf("%q should be valid", r)
		}
	}
	if RepeatType("hourly").Valid() {
		t.Error("hourly should be invalid")
	}
}
