package services

import (
	"testing"
	"time"

	"github.com/vortisllc/memre-backend/internal/models"
)

func TestComputeStatus(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		hasPaid     bool
		sub         models.Subscription
		trialFlag   bool
		regDate     time.Time
		wantTier    string
		wantPremium bool
		wantTrial   bool
		wantDays    int
	}{
		{
			name:    "paid subscription is premium",
			hasPaid: true,
			sub:     models.Subscription{CurrentPeriodEnd: now.AddDate(0, 1, 0)},
			// a trial flag left over from onboarding must not downgrade
			trialFlag:   true,
			wantTier:    TierPremium,
			wantPremium: true,
		},
		{
			name:      "trial inside window",
			trialFlag: true,
			regDate:   now.AddDate(0, 0, -4),
			wantTier:  TierTrial,
			wantTrial: true,
			wantDays:  10,
		},
		{
			name:      "trial expired falls to free",
			trialFlag: true,
			regDate:   now.AddDate(0, 0, -15),
			wantTier:  TierFree,
		},
		{
			name:     "no trial flag is free",
			regDate:  now.AddDate(0, 0, -1),
			wantTier: TierFree,
		},
		{
			name:      "trial last day",
			trialFlag: true,
			regDate:   now.AddDate(0, 0, -13).Add(-time.Hour),
			wantTier:  TierTrial,
			wantTrial: true,
			wantDays:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeStatus(tt.hasPaid, tt.sub, tt.trialFlag, tt.regDate, 14, now)
			if got.Tier != tt.wantTier {
				t.Errorf("tier = %q, want %q", got.Tier, tt.wantTier)
			}
			if got.PremiumActive != tt.wantPremium {
				t.Errorf("premium = %v, want %v", got.PremiumActive, tt.wantPremium)
			}
			if got.IsTrial != tt.wantTrial {
				t.Errorf("trial = %v, want %v", got.IsTrial, tt.wantTrial)
			}
			if got.DaysRemaining != tt.wantDays {
				t.Errorf("days = %d, want %d", got.DaysRemaining, tt.wantDays)
			}
		})
	}
}
