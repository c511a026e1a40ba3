package schema

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vortisllc/memre-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const charsetCollate = "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci"

// TableOutcome records the result of one DDL statement. Provisioning is
// best-effort: a failed statement is recorded and the remaining tables are
// still attempted, so callers get an itemized report instead of a boolean.
type TableOutcome struct {
	Table string `json:"table"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ProvisionReport itemizes per-table outcomes across both backends.
type ProvisionReport struct {
	UserID uint           `json:"user_id"`
	Legacy []TableOutcome `json:"legacy"`
	App    []TableOutcome `json:"app"`
}

// OK reports whether every table in both backends was created or already
// existed.
func (r ProvisionReport) OK() bool {
	for _, o := range append(r.Legacy, r.App...) {
		if !o.OK {
			return false
		}
	}
	return true
}

// Provisioner creates per-user TableSets. CREATE TABLE IF NOT EXISTS makes
// repeated calls after partial failure converge on the same table set.
type Provisioner struct {
	legacy  *gorm.DB
	app     *gorm.DB
	timeout time.Duration
}

func NewProvisioner(legacy, app *gorm.DB, timeout time.Duration) *Provisioner {
	return &Provisioner{legacy: legacy, app: app, timeout: timeout}
}

// EnsureUserSchema creates the four per-user tables in both backends in
// dependency order and records the resolved names as user meta on the legacy
// backend. Idempotent and safe to re-invoke.
func (p *Provisioner) EnsureUserSchema(ctx context.Context, userID uint) (ProvisionReport, error) {
	if userID == 0 {
		return ProvisionReport{}, ErrInvalidUserID
	}

	report := ProvisionReport{UserID: userID}
	report.Legacy = p.createTables(ctx, p.legacy, userID)
	report.App = p.createTables(ctx, p.app, userID)

	if err := p.storeTableMeta(ctx, userID); err != nil {
		slog.Error("failed to store table name meta", "user_id", userID, "error", err)
	}

	return report, nil
}

func (p *Provisioner) createTables(ctx context.Context, db *gorm.DB, userID uint) []TableOutcome {
	ts := NewTableSet(userID)
	statements := []struct {
		table string
		ddl   string
	}{
		{ts.Memo, memoDDL(ts)},
		{ts.Reminder, reminderDDL(ts)},
		{ts.Attachment, attachmentDDL(ts)},
		{ts.MemoReminder, memoReminderDDL(ts)},
	}

	outcomes := make([]TableOutcome, 0, len(statements))
	for _, stmt := range statements {
		cctx, cancel := context.WithTimeout(ctx, p.timeout)
		err := db.WithContext(cctx).Exec(stmt.ddl).Error
		cancel()

		outcome := TableOutcome{Table: stmt.table, OK: err == nil}
		if err != nil {
			outcome.Error = err.Error()
			slog.Error("failed to create table", "table", stmt.table, "user_id", userID, "error", err)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// storeTableMeta persists the resolved table names as durable per-user
// key/value metadata in the legacy backend.
func (p *Provisioner) storeTableMeta(ctx context.Context, userID uint) error {
	ts := NewTableSet(userID)
	pairs := map[string]string{
		models.MetaMemoTable:         ts.Memo,
		models.MetaReminderTable:     ts.Reminder,
		models.MetaMemoReminderTable: ts.MemoReminder,
		models.MetaAttachmentTable:   ts.Attachment,
	}

	cctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	for key, table := range pairs {
		meta := models.UserMeta{UserID: userID, MetaKey: key, MetaValue: table}
		err := p.legacy.WithContext(cctx).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "meta_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
			}).
			Create(&meta).Error
		if err != nil {
			return fmt.Errorf("meta %s: %w", key, err)
		}
	}
	return nil
}

func memoDDL(ts TableSet) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
		"memo_id INT AUTO_INCREMENT PRIMARY KEY, "+
		"memo_desc VARCHAR(75), "+
		"memo LONGTEXT, "+
		"created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP, "+
		"updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"+
		") %s", ts.Memo, charsetCollate)
}

func reminderDDL(ts TableSet) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
		"reminder_id INT AUTO_INCREMENT PRIMARY KEY, "+
		"reminder_time DATETIME, "+
		"repeat_type VARCHAR(20), "+
		"repeat_until DATE, "+
		"timezone_offset INT, "+
		"use_screen_notification BOOLEAN DEFAULT TRUE, "+
		"email_address VARCHAR(255), "+
		"phone_number VARCHAR(20), "+
		"email_addresses TEXT, "+
		"phone_numbers TEXT, "+
		"created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP"+
		") %s", ts.Reminder, charsetCollate)
}

func attachmentDDL(ts TableSet) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
		"attachment_id INT AUTO_INCREMENT PRIMARY KEY, "+
		"memo_id INT, "+
		"file_data LONGBLOB, "+
		"file_type VARCHAR(50), "+
		"file_name VARCHAR(255), "+
		"created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP, "+
		"FOREIGN KEY (memo_id) REFERENCES `%s`(memo_id) ON DELETE CASCADE"+
		") %s", ts.Attachment, ts.Memo, charsetCollate)
}

func memoReminderDDL(ts TableSet) string {
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS `%s` ("+
		"memo_id INT, "+
		"reminder_id INT, "+
		"created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP, "+
		"PRIMARY KEY (memo_id, reminder_id), "+
		"FOREIGN KEY (memo_id) REFERENCES `%s`(memo_id) ON DELETE CASCADE, "+
		"FOREIGN KEY (reminder_id) REFERENCES `%s`(reminder_id) ON DELETE CASCADE"+
		") %s", ts.MemoReminder, ts.Memo, ts.Reminder, charsetCollate)
}
