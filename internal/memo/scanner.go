package memo

import (
	"context"
	"fmt"
	"time"

	"github.com/vortisllc/memre-backend/internal/models"
	"github.com/vortisllc/memre-backend/internal/schema"
	"gorm.io/gorm"
)

// DueReminder is a single fire instance ready for delivery. FireAt is the
// concrete occurrence, which for recurring reminders differs from the stored
// base time.
type DueReminder struct {
	Reminder Reminder
	MemoID   uint
	MemoDesc string
	FireAt   time.Time
	Emails   []string
	Phones   []string
}

// Scanner finds reminder occurrences that are due and not yet marked sent.
// Recurrence is expanded lazily at scan time; only the latest unfired
// occurrence per reminder is reported.
type Scanner struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewScanner(db *gorm.DB, timeout time.Duration) *Scanner {
	return &Scanner{db: db, timeout: timeout}
}

// ScanDue returns the user's due, unsent reminder occurrences as of now.
// Reading a due reminder does not mark it sent; callers record a
// models.ReminderSent marker once they dispatch or deliver it.
func (s *Scanner) ScanDue(ctx context.Context, userID uint, now time.Time) ([]DueReminder, error) {
	ts := schema.NewTableSet(userID)
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	db := s.db.WithContext(cctx)

	type candidate struct {
		Reminder
		MemoID   uint   `gorm:"column:memo_id"`
		MemoDesc string `gorm:"column:memo_desc"`
	}
	var candidates []candidate
	query := fmt.Sprintf(
		"SELECT r.reminder_id, r.reminder_time, r.repeat_type, r.repeat_until, "+
			"r.timezone_offset, r.use_screen_notification, r.email_address, r.phone_number, "+
			"r.email_addresses, r.phone_numbers, r.created_at, mr.memo_id, m.memo_desc "+
			"FROM `%s` r "+
			"JOIN `%s` mr ON mr.reminder_id = r.reminder_id "+
			"JOIN `%s` m ON m.memo_id = mr.memo_id "+
			"WHERE r.reminder_time <= ?",
		ts.Reminder, ts.MemoReminder, ts.Memo)
	if err := db.Raw(query, now).Scan(&candidates).Error; err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []DueReminder{}, nil
	}

	var markers []models.ReminderSent
	if err := db.Where("user_id = ?", userID).Find(&markers).Error; err != nil {
		return nil, err
	}
	sent := make(map[string]bool, len(markers))
	for _, m := range markers {
		sent[markerKey(m.ReminderID, m.FireAt)] = true
	}

	due := make([]DueReminder, 0, len(candidates))
	for _, c := range candidates {
		fireAt, ok := planDue(c.Reminder, sent, now)
		if !ok {
			continue
		}
		due = append(due, DueReminder{
			Reminder: c.Reminder,
			MemoID:   c.MemoID,
			MemoDesc: c.MemoDesc,
			FireAt:   fireAt,
			Emails:   mergeRecipients(c.EmailAddress, c.EmailAddresses),
			Phones:   mergeRecipients(c.PhoneNumber, c.PhoneNumbers),
		})
	}
	return due, nil
}

// planDue resolves the latest occurrence of one reminder and reports whether
// it still needs delivery. sent is keyed by markerKey.
func planDue(r Reminder, sent map[string]bool, now time.Time) (time.Time, bool) {
	fireAt, fired := latestOccurrence(r.Time, r.RepeatType, r.RepeatUntil, now)
	if !fired {
		return time.Time{}, false
	}
	if sent[markerKey(r.ID, fireAt)] {
		return time.Time{}, false
	}
	return fireAt, true
}

// markerKey identifies one fire instance of one reminder. Seconds precision
// matches the DATETIME column the occurrence derives from.
func markerKey(reminderID uint, fireAt time.Time) string {
	return fmt.Sprintf("%d:%d", reminderID, fireAt.UTC().Unix())
}
