package memo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vortisllc/memre-backend/internal/schema"
	"gorm.io/gorm"
)

// Repository reads and writes a single user's memo tables. All statements
// address the physical per-user tables by name, so the table set must exist
// before any call (see schema.Provisioner).
type Repository struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewRepository(db *gorm.DB, timeout time.Duration) *Repository {
	return &Repository{db: db, timeout: timeout}
}

// SaveMemo inserts or updates a memo, replacing its attachment when one is
// supplied. memoID 0 means insert. Returns the memo id.
func (r *Repository) SaveMemo(ctx context.Context, userID uint, memoID uint, description, body string, upload *AttachmentUpload) (uint, error) {
	if len(description) > maxDescriptionLen {
		return 0, ErrDescriptionTooLong
	}

	var fileType string
	if upload != nil {
		var err error
		fileType, err = FileTypeFor(upload.MIMEType)
		if err != nil {
			return 0, err
		}
	}

	ts := schema.NewTableSet(userID)
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	id := memoID
	err := r.db.WithContext(cctx).Transaction(func(tx *gorm.DB) error {
		if memoID == 0 {
			insert := fmt.Sprintf("INSERT INTO `%s` (memo_desc, memo) VALUES (?, ?)", ts.Memo)
			if err := tx.Exec(insert, description, body).Error; err != nil {
				return err
			}
			if err := tx.Raw("SELECT LAST_INSERT_ID()").Scan(&id).Error; err != nil {
				return err
			}
		} else {
			update := fmt.Sprintf("UPDATE `%s` SET memo_desc = ?, memo = ? WHERE memo_id = ?", ts.Memo)
			res := tx.Exec(update, description, body, memoID)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				var count int64
				exists := fmt.Sprintf("SELECT COUNT(*) FROM `%s` WHERE memo_id = ?", ts.Memo)
				if err := tx.Raw(exists, memoID).Scan(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return ErrMemoNotFound
				}
			}
		}

		if upload != nil {
			del := fmt.Sprintf("DELETE FROM `%s` WHERE memo_id = ?", ts.Attachment)
			if err := tx.Exec(del, id).Error; err != nil {
				return err
			}
			ins := fmt.Sprintf("INSERT INTO `%s` (memo_id, file_data, file_type, file_name) VALUES (?, ?, ?, ?)", ts.Attachment)
			if err := tx.Exec(ins, id, upload.Data, fileType, upload.FileName).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// SaveReminders replaces the full reminder set of a memo. Existing linked
// reminders are removed before the new set is inserted, so the stored state
// always mirrors the latest client submission.
func (r *Repository) SaveReminders(ctx context.Context, userID uint, memoID uint, inputs []ReminderInput) error {
	for _, in := range inputs {
		if !in.RepeatType.Valid() {
			return ErrInvalidRepeat
		}
	}

	ts := schema.NewTableSet(userID)
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.db.WithContext(cctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		exists := fmt.Sprintf("SELECT COUNT(*) FROM `%s` WHERE memo_id = ?", ts.Memo)
		if err := tx.Raw(exists, memoID).Scan(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrMemoNotFound
		}

		// Delete the referenced reminder rows first, then the junction rows
		// they cascade from.
		delReminders := fmt.Sprintf(
			"DELETE r FROM `%s` r JOIN `%s` mr ON mr.reminder_id = r.reminder_id WHERE mr.memo_id = ?",
			ts.Reminder, ts.MemoReminder)
		if err := tx.Exec(delReminders, memoID).Error; err != nil {
			return err
		}
		delLinks := fmt.Sprintf("DELETE FROM `%s` WHERE memo_id = ?", ts.MemoReminder)
		if err := tx.Exec(delLinks, memoID).Error; err != nil {
			return err
		}

		for _, in := range inputs {
			email, emails := foldRecipients(in.Emails)
			phone, phones := foldRecipients(in.Phones)

			ins := fmt.Sprintf("INSERT INTO `%s` "+
				"(reminder_time, repeat_type, repeat_until, timezone_offset, use_screen_notification, "+
				"email_address, phone_number, email_addresses, phone_numbers) "+
				"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", ts.Reminder)
			if err := tx.Exec(ins,
				in.Time, string(in.RepeatType), in.RepeatUntil, in.TimezoneOffset,
				in.UseScreenNotification, email, phone, emails, phones).Error; err != nil {
				return err
			}

			var reminderID uint
			if err := tx.Raw("SELECT LAST_INSERT_ID()").Scan(&reminderID).Error; err != nil {
				return err
			}
			link := fmt.Sprintf("INSERT INTO `%s` (memo_id, reminder_id) VALUES (?, ?)", ts.MemoReminder)
			if err := tx.Exec(link, memoID, reminderID).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteMemo removes a memo together with its reminders, attachment and
// junction rows.
func (r *Repository) DeleteMemo(ctx context.Context, userID uint, memoID uint) error {
	ts := schema.NewTableSet(userID)
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.db.WithContext(cctx).Transaction(func(tx *gorm.DB) error {
		delReminders := fmt.Sprintf(
			"DELETE r FROM `%s` r JOIN `%s` mr ON mr.reminder_id = r.reminder_id WHERE mr.memo_id = ?",
			ts.Reminder, ts.MemoReminder)
		if err := tx.Exec(delReminders, memoID).Error; err != nil {
			return err
		}
		delLinks := fmt.Sprintf("DELETE FROM `%s` WHERE memo_id = ?", ts.MemoReminder)
		if err := tx.Exec(delLinks, memoID).Error; err != nil {
			return err
		}
		delAttachment := fmt.Sprintf("DELETE FROM `%s` WHERE memo_id = ?", ts.Attachment)
		if err := tx.Exec(delAttachment, memoID).Error; err != nil {
			return err
		}

		delMemo := fmt.Sprintf("DELETE FROM `%s` WHERE memo_id = ?", ts.Memo)
		res := tx.Exec(delMemo, memoID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrMemoNotFound
		}
		return nil
	})
}

// GetAttachment loads the full attachment payload for a memo.
func (r *Repository) GetAttachment(ctx context.Context, userID uint, memoID uint) (*Attachment, error) {
	ts := schema.NewTableSet(userID)
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var att Attachment
	query := fmt.Sprintf(
		"SELECT attachment_id, memo_id, file_data, file_type, file_name, created_at FROM `%s` WHERE memo_id = ? LIMIT 1",
		ts.Attachment)
	err := r.db.WithContext(cctx).Raw(query, memoID).Scan(&att).Error
	if err != nil {
		return nil, err
	}
	if att.ID == 0 {
		return nil, ErrAttachmentNotFound
	}
	return &att, nil
}

// ListMemos returns the user's memos newest first, each with its reminder set
// and attachment metadata. Attachment payloads are excluded; only the size is
// reported.
func (r *Repository) ListMemos(ctx context.Context, userID uint) ([]Memo, error) {
	ts := schema.NewTableSet(userID)
	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	db := r.db.WithContext(cctx)

	var memos []Memo
	listQuery := fmt.Sprintf(
		"SELECT memo_id, memo_desc, memo, created_at, updated_at FROM `%s` ORDER BY memo_id DESC", ts.Memo)
	if err := db.Raw(listQuery).Scan(&memos).Error; err != nil {
		return nil, err
	}
	if len(memos) == 0 {
		return []Memo{}, nil
	}

	type linkedReminder struct {
		Reminder
		MemoID uint `gorm:"column:memo_id"`
	}
	var linked []linkedReminder
	reminderQuery := fmt.Sprintf(
		"SELECT mr.memo_id, r.reminder_id, r.reminder_time, r.repeat_type, r.repeat_until, "+
			"r.timezone_offset, r.use_screen_notification, r.email_address, r.phone_number, "+
			"r.email_addresses, r.phone_numbers, r.created_at "+
			"FROM `%s` r JOIN `%s` mr ON mr.reminder_id = r.reminder_id "+
			"ORDER BY r.reminder_time ASC",
		ts.Reminder, ts.MemoReminder)
	if err := db.Raw(reminderQuery).Scan(&linked).Error; err != nil {
		return nil, err
	}

	type linkedAttachment struct {
		AttachmentMeta
		MemoID uint `gorm:"column:memo_id"`
	}
	var atts []linkedAttachment
	attQuery := fmt.Sprintf(
		"SELECT memo_id, attachment_id, file_type, file_name, OCTET_LENGTH(file_data) AS size FROM `%s`",
		ts.Attachment)
	if err := db.Raw(attQuery).Scan(&atts).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]*Memo, len(memos))
	for i := range memos {
		memos[i].Reminders = []Reminder{}
		byID[memos[i].ID] = &memos[i]
	}
	for _, lr := range linked {
		if m, ok := byID[lr.MemoID]; ok {
			m.Reminders = append(m.Reminders, lr.Reminder)
		}
	}
	for _, la := range atts {
		if m, ok := byID[la.MemoID]; ok {
			meta := la.AttachmentMeta
			m.Attachment = &meta
		}
	}
	return memos, nil
}

// IsNotFound reports whether err is one of the lookup-miss sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrMemoNotFound) || errors.Is(err, ErrAttachmentNotFound)
}
