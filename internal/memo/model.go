package memo

import (
	"errors"
	"time"
)

// RepeatType is the recurrence kind stored on a reminder. Future fire
// instances are never materialized; the scanner expands them lazily.
type RepeatType string

const (
	RepeatNone    RepeatType = ""
	RepeatDaily   RepeatType = "daily"
	RepeatWeekly  RepeatType = "weekly"
	RepeatMonthly RepeatType = "monthly"
	RepeatYearly  RepeatType = "yearly"
)

func (r RepeatType) Valid() bool {
	switch r {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return true
	}
	return false
}

const maxDescriptionLen = 75

var (
	ErrMemoNotFound       = errors.New("memo not found")
	ErrAttachmentNotFound = errors.New("attachment not found")
	ErrInvalidFileType    = errors.New("invalid file type")
	ErrInvalidRepeat      = errors.New("invalid repeat type")
	ErrDescriptionTooLong = errors.New("description exceeds 75 characters")
)

// allowedMIME maps accepted MIME types to the coarse tag stored alongside the
// attachment. Anything else is rejected outright.
var allowedMIME = map[string]string{
	"image/jpeg":         "image",
	"image/png":          "image",
	"image/gif":          "image",
	"application/pdf":    "document",
	"application/msword": "document",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "document",
	"video/mp4":       "video",
	"video/quicktime": "video",
}

// FileTypeFor resolves a declared MIME type to its coarse tag.
func FileTypeFor(mime string) (string, error) {
	tag, ok := allowedMIME[mime]
	if !ok {
		return "", ErrInvalidFileType
	}
	return tag, nil
}

// Memo is one row of a user's memo table, with aggregated reminder and
// attachment views for listing.
type Memo struct {
	ID          uint            `gorm:"column:memo_id" json:"memo_id"`
	Description string          `gorm:"column:memo_desc" json:"memo_desc"`
	Body        string          `gorm:"column:memo" json:"memo"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at" json:"updated_at"`
	Reminders   []Reminder      `gorm:"-" json:"reminders"`
	Attachment  *AttachmentMeta `gorm:"-" json:"attachment,omitempty"`
}

// Attachment carries the binary payload; used for upload and download only.
type Attachment struct {
	ID        uint      `gorm:"column:attachment_id" json:"attachment_id"`
	MemoID    uint      `gorm:"column:memo_id" json:"memo_id"`
	Data      []byte    `gorm:"column:file_data" json:"-"`
	FileType  string    `gorm:"column:file_type" json:"file_type"`
	FileName  string    `gorm:"column:file_name" json:"file_name"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// AttachmentMeta is the payload-free view used in listings.
type AttachmentMeta struct {
	ID       uint   `gorm:"column:attachment_id" json:"attachment_id"`
	FileType string `gorm:"column:file_type" json:"file_type"`
	FileName string `gorm:"column:file_name" json:"file_name"`
	Size     int64  `gorm:"column:size" json:"size"`
}

// Reminder mirrors a row of a user's reminder table. The single
// email_address/phone_number columns are the legacy primary recipient slots;
// overflow recipients are pipe-joined in the plural columns.
//
// Fire times are wall-clock DATETIME values in the server zone.
// TimezoneOffset is the client's minutes-from-UTC at save time, carried so
// devices can render the reminder in local time; the server never applies it
// when deciding what is due.
type Reminder struct {
	ID                    uint       `gorm:"column:reminder_id" json:"reminder_id"`
	Time                  time.Time  `gorm:"column:reminder_time" json:"reminder_time"`
	RepeatType            RepeatType `gorm:"column:repeat_type" json:"repeat_type"`
	RepeatUntil           *time.Time `gorm:"column:repeat_until" json:"repeat_until,omitempty"`
	TimezoneOffset        int        `gorm:"column:timezone_offset" json:"timezone_offset"`
	UseScreenNotification bool       `gorm:"column:use_screen_notification" json:"use_screen_notification"`
	EmailAddress          string     `gorm:"column:email_address" json:"email_address"`
	PhoneNumber           string     `gorm:"column:phone_number" json:"phone_number"`
	EmailAddresses        string     `gorm:"column:email_addresses" json:"email_addresses"`
	PhoneNumbers          string     `gorm:"column:phone_numbers" json:"phone_numbers"`
	CreatedAt             time.Time  `gorm:"column:created_at" json:"created_at"`
}

// ReminderInput is the client-facing shape used when replacing a memo's
// reminder set.
type ReminderInput struct {
	Time                  time.Time  `json:"reminder_time"`
	RepeatType            RepeatType `json:"repeat_type"`
	RepeatUntil           *time.Time `json:"repeat_until,omitempty"`
	TimezoneOffset        int        `json:"timezone_offset"`
	UseScreenNotification bool       `json:"use_screen_notification"`
	Emails                []string   `json:"emails"`
	Phones                []string   `json:"phones"`
}

// AttachmentUpload is a pending attachment carried alongside a memo save.
type AttachmentUpload struct {
	MIMEType string
	FileName string
	Data     []byte
}
