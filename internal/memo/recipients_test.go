package memo

import (
	"reflect"
	"testing"
)

func TestDedupeRecipients(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"no duplicates", []string{"a@x.com", "b@x.com"}, []string{"a@x.com", "b@x.com"}},
		{"exact duplicate removed", []string{"a@x.com", "a@x.com"}, []string{"a@x.com"}},
		{"case sensitive", []string{"A@x.com", "a@x.com"}, []string{"A@x.com", "a@x.com"}},
		{"blanks dropped", []string{"", "a@x.com", "  "}, []string{"a@x.com"}},
		{"empty", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dedupeRecipients(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("dedupeRecipients(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFoldRecipients(t *testing.T) {
	tests := []struct {
		name         string
		in           []string
		wantPrimary  string
		wantOverflow string
	}{
		{"single", []string{"a@x.com"}, "a@x.com", ""},
		{"two", []string{"a@x.com", "b@x.com"}, "a@x.com", "b@x.com"},
		{"three", []string{"a@x.com", "b@x.com", "c@x.com"}, "a@x.com", "b@x.com|c@x.com"},
		{"duplicate of primary folded away", []string{"a@x.com", "a@x.com", "b@x.com"}, "a@x.com", "b@x.com"},
		{"empty", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary, overflow := foldRecipients(tt.in)
			if primary != tt.wantPrimary || overflow != tt.wantOverflow {
				t.Errorf("foldRecipients(%v) = (%q, %q), want (%q, %q)",
					tt.in, primary, overflow, tt.wantPrimary, tt.wantOverflow)
			}
		})
	}
}

func TestMergeRecipients(t *testing.T) {
	tests := []struct {
		name     string
		primary  string
		overflow string
		want     []string
	}{
		{"primary only", "a@x.com", "", []string{"a@x.com"}},
		{"primary plus overflow", "a@x.com", "b@x.com|c@x.com", []string{"a@x.com", "b@x.com", "c@x.com"}},
		{"primary repeated in overflow", "a@x.com", "a@x.com|b@x.com", []string{"a@x.com", "b@x.com"}},
		{"empty primary", "", "b@x.com", []string{"b@x.com"}},
		{"nothing", "", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mergeRecipients(tt.primary, tt.overflow); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("mergeRecipients(%q, %q) = %v, want %v", tt.primary, tt.overflow, got, tt.want)
			}
		})
	}
}

func TestFoldMergeRoundTrip(t *testing.T) {
	in := []string{"a@x.com", "b@x.com", "a@x.com", "c@x.com"}
	primary, overflow := foldRecipients(in)
	got := mergeRecipients(primary, overflow)
	want := []string{"a@x.com", "b@x.com", "c@x.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip = %v, want %v", got, want)
	}
}
