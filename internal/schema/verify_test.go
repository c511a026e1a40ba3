package schema

import "testing"

func TestCompletePolicy(t *testing.T) {
	ts := NewTableSet(42)

	all := map[string]bool{
		ts.Memo: true, ts.Reminder: true, ts.Attachment: true, ts.MemoReminder: true,
	}
	memoOnly := map[string]bool{
		ts.Memo: true, ts.Reminder: false, ts.Attachment: false, ts.MemoReminder: false,
	}
	noMemo := map[string]bool{
		ts.Memo: false, ts.Reminder: true, ts.Attachment: true, ts.MemoReminder: true,
	}

	tests := []struct {
		name   string
		legacy map[string]bool
		strict bool
		want   bool
	}{
		{"all tables permissive", all, false, true},
		{"all tables strict", all, true, true},
		{"memo only permissive", memoOnly, false, true},
		{"memo only strict", memoOnly, true, false},
		{"missing memo permissive", noMemo, false, false},
		{"missing memo strict", noMemo, true, false},
		{"empty permissive", map[string]bool{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := completePolicy(tt.legacy, ts, tt.strict); got != tt.want {
				t.Errorf("completePolicy() = %v, want %v", got, tt.want)
			}
		})
	}
}
