package models

import "time"

// ReminderSent marks a single fire instance of a reminder as dispatched.
// Recurring reminders produce one row per occurrence, so the unique index is
// over (user, reminder, occurrence). The due scanner treats the absence of a
// row as "due"; writing the row is the dispatcher's responsibility and its
// timing (after dispatch attempt vs. after confirmed delivery) is a
// configuration choice.
type ReminderSent struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_reminder_sent_fire" json:"user_id"`
	ReminderID uint      `gorm:"not null;uniqueIndex:idx_reminder_sent_fire" json:"reminder_id"`
	FireAt     time.Time `gorm:"not null;uniqueIndex:idx_reminder_sent_fire" json:"fire_at"`
	CreatedAt  time.Time `json:"created_at"`
}
