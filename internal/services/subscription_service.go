package services

import (
	"errors"
	"time"

	"github.com/vortisllc/memre-backend/internal/config"
	"github.com/vortisllc/memre-backend/internal/dto"
	"github.com/vortisllc/memre-backend/internal/models"
	"gorm.io/gorm"
)

// Subscription tiers reported to clients.
const (
	TierPremium = "MemrE App"
	TierTrial   = "Trial"
	TierFree    = "Free"
)

type SubscriptionService struct {
	db   *gorm.DB
	meta *MetaStore
	cfg  *config.Config
}

func NewSubscriptionService(db *gorm.DB, cfg *config.Config) *SubscriptionService {
	return &SubscriptionService{db: db, meta: NewMetaStore(db), cfg: cfg}
}

// Status resolves a user's effective subscription tier. A paid active or
// trialing row wins; otherwise the free-trial meta flag grants a bounded
// trial window from the registration date; otherwise the account is free.
func (s *SubscriptionService) Status(userID uint) (*dto.SubscriptionStatusResponse, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var sub models.Subscription
	err := s.db.Where("user_id = ? AND status IN ?", userID,
		[]string{models.SubStatusActive, models.SubStatusTrialing}).
		Order("current_period_end DESC").
		First(&sub).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	hasPaid := err == nil

	trialFlag, err := s.meta.Get(userID, models.MetaFreeTrial)
	if err != nil {
		return nil, err
	}

	regDate := user.CreatedAt
	if raw, err := s.meta.Get(userID, models.MetaRegistrationDate); err == nil && raw != "" {
		if parsed, perr := time.Parse(time.RFC3339, raw); perr == nil {
			regDate = parsed
		}
	}

	resp := computeStatus(hasPaid, sub, trialFlag == "yes", regDate, s.cfg.TrialDays, time.Now())
	resp.UserID = userID
	return &resp, nil
}

// CancelAll flips every live subscription row to canceled. Used on account
// deletion.
func (s *SubscriptionService) CancelAll(userID uint) error {
	return s.db.Model(&models.Subscription{}).
		Where("user_id = ? AND status IN ?", userID,
			[]string{models.SubStatusActive, models.SubStatusTrialing}).
		Update("status", models.SubStatusCanceled).Error
}

// computeStatus is the pure tier decision. Trial users are not premium; the
// premium tier requires a paid active or trialing subscription row.
func computeStatus(hasPaid bool, sub models.Subscription, trialFlag bool, regDate time.Time, trialDays int, now time.Time) dto.SubscriptionStatusResponse {
	if hasPaid {
		resp := dto.SubscriptionStatusResponse{
			Tier:          TierPremium,
			PremiumActive: true,
		}
		if !sub.CurrentPeriodEnd.IsZero() {
			resp.ExpiresAt = sub.CurrentPeriodEnd.Format(time.RFC3339)
		}
		return resp
	}

	if trialFlag {
		trialEnd := regDate.AddDate(0, 0, trialDays)
		if now.Before(trialEnd) {
			remaining := int(trialEnd.Sub(now).Hours() / 24)
			return dto.SubscriptionStatusResponse{
				Tier:          TierTrial,
				IsTrial:       true,
				DaysRemaining: remaining,
				ExpiresAt:     trialEnd.Format(time.RFC3339),
			}
		}
	}

	return dto.SubscriptionStatusResponse{Tier: TierFree}
}
