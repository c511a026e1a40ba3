package services

import (
	"testing"
	"time"
)

func TestDeletionState(t *testing.T) {
	requestedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lifetime := 168 * time.Hour

	tests := []struct {
		name   string
		status string
		now    time.Time
		want   string
	}{
		{
			name:   "pending inside window",
			status: DeletionPending,
			now:    requestedAt.Add(24 * time.Hour),
			want:   DeletionPending,
		},
		{
			name:   "pending past window expires",
			status: DeletionPending,
			now:    requestedAt.Add(lifetime + time.Second),
			want:   DeletionExpired,
		},
		{
			name:   "pending exactly at expiry still pending",
			status: DeletionPending,
			now:    requestedAt.Add(lifetime),
			want:   DeletionPending,
		},
		{
			name:   "confirmed is final",
			status: DeletionConfirmed,
			now:    requestedAt.Add(lifetime + 24*time.Hour),
			want:   DeletionConfirmed,
		},
		{
			name:   "expired stays expired",
			status: DeletionExpired,
			now:    requestedAt.Add(time.Hour),
			want:   DeletionExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := deletionState(tt.status, requestedAt, lifetime, tt.now); got != tt.want {
				t.Errorf("deletionState(%q, now=%v) = %q, want %q", tt.status, tt.now, got, tt.want)
			}
		})
	}
}
