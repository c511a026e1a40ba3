package models

import "time"

// Meta keys used by the lifecycle services.
const (
	MetaFreeTrial           = "is_free_trial"
	MetaRegistrationDate    = "registration_date"
	MetaRegistrationSource  = "registration_source"
	MetaDeletionRequestID   = "deletion_request_id"
	MetaDeletionRequestDate = "deletion_request_date"
	MetaDeletionStatus      = "deletion_status"

	MetaMemoTable         = "user_memo_table"
	MetaReminderTable     = "user_reminder_table"
	MetaMemoReminderTable = "user_memo_reminder_table"
	MetaAttachmentTable   = "user_attachment_table"
)

// UserMeta is a per-user key/value row in the legacy database. Resolved
// per-user table names, trial flags and deletion-request state live here.
type UserMeta struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_meta_key" json:"user_id"`
	MetaKey   string    `gorm:"size:255;not null;uniqueIndex:idx_user_meta_key;index" json:"meta_key"`
	MetaValue string    `gorm:"type:text" json:"meta_value"`
	UpdatedAt time.Time `json:"updated_at"`
}
