package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the account record in the legacy database. IDs are numeric because
// the per-user table naming scheme embeds them in physical table names.
type User struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"user_id"`
	Username     string         `gorm:"size:60;not null;uniqueIndex" json:"username"`
	Email        string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	DisplayName  string         `gorm:"size:250" json:"user_display_name"`
	Role         string         `gorm:"size:20;default:'subscriber'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
