package memo

import (
	"testing"
)

func TestPlanDue(t *testing.T) {
	base := mustTime("2025-01-01T09:00")

	tests := []struct {
		name     string
		reminder Reminder
		sent     map[string]bool
		now      string
		wantFire string
		wantDue  bool
	}{
		{
			name:     "one-shot due",
			reminder: Reminder{ID: 1, Time: base},
			now:      "2025-01-01T09:30",
			wantFire: "2025-01-01T09:00", wantDue: true,
		},
		{
			name:     "one-shot not yet due",
			reminder: Reminder{ID: 1, Time: base},
			now:      "2025-01-01T08:59",
			wantDue:  false,
		},
		{
			name:     "one-shot already sent",
			reminder: Reminder{ID: 1, Time: base},
			sent:     map[string]bool{markerKey(1, base): true},
			now:      "2025-01-02T00:00",
			wantDue:  false,
		},
		{
			name:     "weekly fires a week after base",
			reminder: Reminder{ID: 2, Time: base, RepeatType: RepeatWeekly},
			sent:     map[string]bool{markerKey(2, base): true},
			now:      "2025-01-08T09:00",
			wantFire: "2025-01-08T09:00", wantDue: true,
		},
		{
			name:     "weekly occurrence already sent",
			reminder: Reminder{ID: 2, Time: base, RepeatType: RepeatWeekly},
			sent: map[string]bool{
				markerKey(2, base):                       true,
				markerKey(2, mustTime("2025-01-08T09:00")): true,
			},
			now:     "2025-01-10T00:00",
			wantDue: false,
		},
		{
			name:     "daily bounded by until",
			reminder: Reminder{ID: 3, Time: base, RepeatType: RepeatDaily, RepeatUntil: datePtr("2025-01-03")},
			sent:     map[string]bool{markerKey(3, mustTime("2025-01-03T09:00")): true},
			now:      "2025-01-20T00:00",
			wantDue:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.sent == nil {
				tt.sent = map[string]bool{}
			}
			fireAt, due := planDue(tt.reminder, tt.sent, mustTime(tt.now))
			if due != tt.wantDue {
				t.Fatalf("due = %v, want %v", due, tt.wantDue)
			}
			if due && !fireAt.Equal(mustTime(tt.wantFire)) {
				t.Errorf("fireAt = %v, want %v", fireAt, mustTime(tt.wantFire))
			}
		})
	}
}

func TestMarkerKeyDistinguishesOccurrences(t *testing.T) {
	a := markerKey(1, mustTime("2025-01-01T09:00"))
	b := markerKey(1, mustTime("2025-01-08T09:00"))
	if a == b {
		t.Error("different occurrences must map to different keys")
	}
	if markerKey(1, mustTime("2025-01-01T09:00")) != a {
		t.Error("same occurrence must map to the same key")
	}
	if markerKey(2, mustTime("2025-01-01T09:00")) == a {
		t.Error("different reminders must map to different keys")
	}
}
