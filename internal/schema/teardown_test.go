package schema

import "testing"

func TestOrderForDrop(t *testing.T) {
	ts := NewTableSet(42)

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "full set reordered",
			in:   []string{ts.Memo, ts.Reminder, ts.Attachment, ts.MemoReminder},
			want: []string{ts.MemoReminder, ts.Attachment, ts.Reminder, ts.Memo},
		},
		{
			name: "partial set keeps relative order",
			in:   []string{ts.Memo, ts.MemoReminder},
			want: []string{ts.MemoReminder, ts.Memo},
		},
		{
			name: "stragglers appended",
			in:   []string{"user_42_scratch", ts.Memo},
			want: []string{ts.Memo, "user_42_scratch"},
		},
		{
			name: "empty",
			in:   nil,
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := orderForDrop(42, tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("orderForDrop() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("orderForDrop()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDeletionReportOK(t *testing.T) {
	ok := DeletionReport{TablesDropped: 4, TablesFound: 4}
	if !ok.OK() {
		t.Error("full drop should be OK")
	}

	partial := DeletionReport{TablesDropped: 3, TablesFound: 4, Errors: []string{"failed to drop user_1_memo: locked"}}
	if partial.OK() {
		t.Error("partial drop must not be OK")
	}

	empty := DeletionReport{}
	if !empty.OK() {
		t.Error("nothing found, nothing dropped is OK")
	}
}
