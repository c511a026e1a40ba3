package schema

import "testing"

func TestTableName(t *testing.T) {
	tests := []struct {
		userID uint
		kind   Kind
		want   string
	}{
		{42, KindMemo, "user_42_memo"},
		{42, KindReminder, "user_42_reminder"},
		{42, KindAttachment, "user_42_attachment"},
		{42, KindMemoReminder, "user_42_memo_reminder"},
		{1, KindMemo, "user_1_memo"},
	}

	for _, tt := range tests {
		if got := TableName(tt.userID, tt.kind); got != tt.want {
			t.Errorf("TableName(%d, %s) = %q, want %q", tt.userID, tt.kind, got, tt.want)
		}
	}
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    uint
		wantErr bool
	}{
		{"plain numeric", "42", 42, false},
		{"single digit", "7", 7, false},
		{"zero rejected", "0", 0, true},
		{"empty rejected", "", 0, true},
		{"negative rejected", "-1", 0, true},
		{"injection rejected", "1; DROP TABLE users", 0, true},
		{"backtick rejected", "1`memo", 0, true},
		{"hex rejected", "0x2a", 0, true},
		{"whitespace rejected", " 42", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUserID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseUserID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseUserID(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestTableSetOrdering(t *testing.T) {
	ts := NewTableSet(9)

	all := ts.All()
	if len(all) != 4 {
		t.Fatalf("All() returned %d tables, want 4", len(all))
	}
	if all[0] != "user_9_memo" || all[3] != "user_9_memo_reminder" {
		t.Errorf("creation order wrong: %v", all)
	}

	drop := ts.DropOrder()
	if drop[0] != "user_9_memo_reminder" || drop[3] != "user_9_memo" {
		t.Errorf("drop order wrong: %v", drop)
	}
}

func TestPrefix(t *testing.T) {
	if got := Prefix(42); got != "user_42_" {
		t.Errorf("Prefix(42) = %q", got)
	}
}
