package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vortisllc/memre-backend/internal/config"
	"github.com/vortisllc/memre-backend/internal/dto"
	"github.com/vortisllc/memre-backend/internal/mailer"
	"github.com/vortisllc/memre-backend/internal/memo"
	"github.com/vortisllc/memre-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DispatchService scans for due reminder occurrences and delivers them by
// mail, recording a per-occurrence sent marker so each fire instance goes out
// once. Marker timing follows the configured policy: after_dispatch records
// the marker before delivery is attempted (at-most-once), after_delivery
// records it only on success (at-least-once).
type DispatchService struct {
	db      *gorm.DB
	scanner *memo.Scanner
	mail    mailer.Mailer
	policy  string
}

func NewDispatchService(db *gorm.DB, scanner *memo.Scanner, mail mailer.Mailer, cfg *config.Config) *DispatchService {
	return &DispatchService{db: db, scanner: scanner, mail: mail, policy: cfg.MarkerPolicy}
}

// ScanAndDispatch finds the user's due occurrences and sends each one.
func (s *DispatchService) ScanAndDispatch(ctx context.Context, userID uint, now time.Time) ([]dto.DueReminderItem, error) {
	due, err := s.scanner.ScanDue(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DueReminderItem, 0, len(due))
	for _, d := range due {
		items = append(items, dto.DueReminderItem{
			ReminderID: d.Reminder.ID,
			MemoID:     d.MemoID,
			MemoDesc:   d.MemoDesc,
			FireAt:     d.FireAt.Format(time.RFC3339),
			Emails:     d.Emails,
			Phones:     d.Phones,
			Dispatched: s.dispatch(ctx, userID, d),
		})
	}
	return items, nil
}

func (s *DispatchService) dispatch(ctx context.Context, userID uint, d memo.DueReminder) bool {
	if s.policy == config.MarkerAfterDispatch {
		if err := s.writeMarker(userID, d); err != nil {
			slog.Error("failed to record sent marker", "user_id", userID,
				"reminder_id", d.Reminder.ID, "error", err)
			return false
		}
	}

	err := s.deliver(ctx, d)
	if err != nil {
		slog.Error("reminder delivery failed", "user_id", userID,
			"reminder_id", d.Reminder.ID, "fire_at", d.FireAt, "error", err)
		return false
	}

	if s.policy == config.MarkerAfterDelivery {
		if err := s.writeMarker(userID, d); err != nil {
			slog.Error("failed to record sent marker", "user_id", userID,
				"reminder_id", d.Reminder.ID, "error", err)
		}
	}

	slog.Info("reminder dispatched", "user_id", userID,
		"reminder_id", d.Reminder.ID, "fire_at", d.FireAt, "recipients", len(d.Emails))
	return true
}

func (s *DispatchService) deliver(ctx context.Context, d memo.DueReminder) error {
	if len(d.Emails) == 0 {
		return nil
	}

	subject := "MemrE Reminder"
	if d.MemoDesc != "" {
		subject = "MemrE Reminder: " + d.MemoDesc
	}
	body := fmt.Sprintf("Reminder for your memo %q, scheduled for %s.",
		d.MemoDesc, d.FireAt.Format("Jan 2, 2006 at 3:04 PM"))

	return s.mail.Send(ctx, d.Emails, subject, body)
}

// writeMarker records the occurrence. The unique index over
// (user, reminder, fire time) makes concurrent sweeps converge on one row.
func (s *DispatchService) writeMarker(userID uint, d memo.DueReminder) error {
	marker := models.ReminderSent{
		UserID:     userID,
		ReminderID: d.Reminder.ID,
		FireAt:     d.FireAt,
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&marker).Error
}
