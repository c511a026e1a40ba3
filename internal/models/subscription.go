package models

import "time"

// Subscription statuses considered paid-active.
const (
	SubStatusActive   = "active"
	SubStatusTrialing = "trialing"
	SubStatusCanceled = "canceled"
)

// Subscription mirrors the billing provider's per-user subscription rows.
// The billing integration itself is an external collaborator; this table is
// only read for status and flipped to canceled on account deletion.
type Subscription struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID             uint      `gorm:"not null;index" json:"user_id"`
	PlanID             string    `gorm:"size:100" json:"plan_id"`
	Status             string    `gorm:"size:50;not null;default:'inactive';index" json:"status"`
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
